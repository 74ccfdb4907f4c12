package vss

import "github.com/sirupsen/logrus"

// Logger is the logging interface consumed by this package. Both
// *logrus.Logger and *logrus.Entry satisfy it, so callers can hand the client
// a bare logger or one already scoped with fields
// (e.g. log.WithField("module", "vss")).
type Logger = logrus.FieldLogger
