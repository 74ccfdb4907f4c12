// Viper-backed construction, so a client can be stood up from the same kind
// of config subtree the rest of a project already carries.
package vss

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/versionedstorage/vss-go/pkg/retry"
)

// NewFromConfig builds a Client from a viper subtree. Recognized settings:
//
//	endpoint              base URL of the VSS server (required)
//	timeout               http.Client timeout, default 30s
//	retry.max-attempts    total PutObject attempts, default 10
//	retry.base-delay      first backoff delay, default 100ms
//	retry.jitter          jitter fraction, default 0.25
//	retry.max-total-delay optional cap on summed backoff delays
//
// See configs/vss.yaml for an example.
func NewFromConfig(logger Logger, config *viper.Viper) (*Client, error) {
	if config == nil {
		return nil, errors.New("nil configuration")
	}

	endpoint := config.GetString("endpoint")
	if endpoint == "" {
		return nil, errors.New("configuration setting 'endpoint' is required")
	}

	timeout := config.GetDuration("timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	policy, err := policyFromConfig(config)
	if err != nil {
		return nil, errors.Wrap(err, "invalid retry configuration")
	}

	httpClient := &http.Client{Timeout: timeout}
	return NewWithHTTPClient(logger, endpoint, httpClient, policy), nil
}

func policyFromConfig(config *viper.Viper) (retry.Policy, error) {
	maxAttempts := 10
	if config.IsSet("retry.max-attempts") {
		maxAttempts = config.GetInt("retry.max-attempts")
		if maxAttempts < 1 {
			return nil, errors.Errorf("retry.max-attempts must be >= 1, got %d", maxAttempts)
		}
	}

	baseDelay := 100 * time.Millisecond
	if config.IsSet("retry.base-delay") {
		baseDelay = config.GetDuration("retry.base-delay")
		if baseDelay < 0 {
			return nil, errors.Errorf("retry.base-delay must not be negative, got %s", baseDelay)
		}
	}

	jitter := 0.25
	if config.IsSet("retry.jitter") {
		jitter = config.GetFloat64("retry.jitter")
		if jitter < 0 || jitter > 1 {
			return nil, errors.Errorf("retry.jitter must be in [0, 1], got %v", jitter)
		}
	}

	var policy retry.Policy = retry.ExponentialBackoff{Base: baseDelay}
	if config.IsSet("retry.max-total-delay") {
		policy = retry.WithMaxTotalDelay(policy, config.GetDuration("retry.max-total-delay"))
	}
	policy = retry.WithMaxAttempts(policy, maxAttempts)
	if jitter > 0 {
		policy = retry.WithJitter(policy, jitter)
	}
	return retry.If(policy, DefaultRetryable), nil
}
