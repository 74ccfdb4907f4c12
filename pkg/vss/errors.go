package vss

import (
	"fmt"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

// ErrorKind classifies a failed VSS call.
type ErrorKind int

const (
	// KindTransport: the HTTP round-trip itself failed (connection refused,
	// timeout, DNS, cancelled context). No status code exists.
	KindTransport ErrorKind = iota

	// KindClientError: the server answered with a 4xx-equivalent status.
	// Not retryable by default (bad request shape, version conflict,
	// missing key).
	KindClientError

	// KindServerError: the server answered with a 5xx-equivalent status.
	// Retryable by default.
	KindServerError

	// KindMalformedResponse: the status said success but the body did not
	// decode into the expected response message.
	KindMalformedResponse

	// KindContractViolation: the response decoded fine but breaks an API
	// guarantee, e.g. a GetObject success without a value. This is a server
	// bug surfaced distinctly; it is never folded into KindMalformedResponse
	// and never treated as "key absent".
	KindContractViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindClientError:
		return "client error"
	case KindServerError:
		return "server error"
	case KindMalformedResponse:
		return "malformed response"
	case KindContractViolation:
		return "server contract violation"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is the typed error surfaced by every failed client operation.
//
// StatusCode and Body hold the exact values received on the wire for client
// and server errors, so callers can inspect the server's diagnostic text.
// Code and Message are filled in when the body decodes as a VSS
// ErrorResponse; otherwise Code stays ErrorCodeUnknown and Message falls back
// to the raw body text.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Body       []byte
	Code       vsstypes.ErrorCode
	Message    string
	cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("vss %s: %s: %v", e.Op, e.Kind, e.cause)
	case KindClientError, KindServerError:
		if e.Message != "" {
			return fmt.Sprintf("vss %s: %s: status %d (%s): %s",
				e.Op, e.Kind, e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("vss %s: %s: status %d", e.Op, e.Kind, e.StatusCode)
	case KindMalformedResponse:
		return fmt.Sprintf("vss %s: %s: %v", e.Op, e.Kind, e.cause)
	default:
		return fmt.Sprintf("vss %s: %s: %s", e.Op, e.Kind, e.Message)
	}
}

// Unwrap exposes the underlying transport or decode error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsConflict reports whether the server rejected a conditional write because
// the expected version no longer matched.
func (e *Error) IsConflict() bool {
	return e.Code == vsstypes.ErrorCodeConflictException
}

// IsNoSuchKey reports whether the server reported the requested key as
// absent.
func (e *Error) IsNoSuchKey() bool {
	return e.Code == vsstypes.ErrorCodeNoSuchKeyException
}

// IsInvalidRequest reports whether the server rejected the request shape.
func (e *Error) IsInvalidRequest() bool {
	return e.Code == vsstypes.ErrorCodeInvalidRequestException
}

// IsAuth reports whether the server rejected the caller's credentials.
func (e *Error) IsAuth() bool {
	return e.Code == vsstypes.ErrorCodeAuthException
}

// DefaultRetryable reports whether err is worth retrying absent more specific
// policy: transport failures and server errors are, everything else is not.
func DefaultRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == KindTransport || e.Kind == KindServerError
	}
	return false
}

// transportError wraps a failed round-trip.
func transportError(op string, cause error) *Error {
	return &Error{Kind: KindTransport, Op: op, cause: cause}
}

// statusError classifies a non-2xx response, keeping the raw status and body
// and decoding the server's ErrorResponse when the body allows it.
func statusError(op string, status int, body []byte) *Error {
	e := &Error{
		Op:         op,
		StatusCode: status,
		Body:       body,
	}
	if status >= 400 && status < 500 {
		e.Kind = KindClientError
	} else {
		e.Kind = KindServerError
	}

	var errResp vsstypes.ErrorResponse
	if err := errResp.Unmarshal(body); err == nil && errResp.Message != "" {
		e.Code = errResp.Code
		e.Message = errResp.Message
	} else if len(body) > 0 {
		e.Message = string(body)
	}
	return e
}

// malformedError wraps a decode failure on a success status.
func malformedError(op string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Op: op, cause: cause}
}

// contractViolation flags a well-formed response that breaks an API
// guarantee.
func contractViolation(op string, msg string) *Error {
	return &Error{Kind: KindContractViolation, Op: op, Message: msg}
}
