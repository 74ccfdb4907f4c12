package vss

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/versionedstorage/vss-go/pkg/retry"
	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

// Endpoint path suffixes, one per operation. All operations are POSTs of a
// protobuf-encoded body against baseURL + suffix.
const (
	pathGetObject       = "/getObject"
	pathPutObjects      = "/putObjects"
	pathDeleteObject    = "/deleteObject"
	pathListKeyVersions = "/listKeyVersions"
)

// Client is a thin client for a hosted Versioned Storage Service instance.
// Its surface is congruent to the server-side API: GetObject, PutObject,
// DeleteObject and ListKeyVersions.
//
// A Client is immutable after construction and safe for any number of
// concurrent calls. It keeps no state between calls beyond its configuration,
// and it never enforces a deadline of its own: cancellation and timeouts
// belong to the caller's context or the injected http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	log        Logger
}

// New builds a Client for the VSS server at baseURL. policy governs PutObject
// retries only; nil means DefaultRetryPolicy(). A nil logger falls back to
// the logrus standard logger.
func New(logger Logger, baseURL string, policy retry.Policy) *Client {
	return NewWithHTTPClient(logger, baseURL, &http.Client{}, policy)
}

// NewWithHTTPClient is New with a caller-supplied http.Client, for callers
// that need custom transports, timeouts or connection pools.
func NewWithHTTPClient(logger Logger, baseURL string, httpClient *http.Client, policy retry.Policy) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		policy:     policy,
		log:        logger,
	}
}

// BaseURL returns the configured server endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DefaultRetryPolicy retries transport and server errors with jittered
// exponential backoff (100ms base, ±25%), at most 10 attempts. Client errors,
// malformed responses and contract violations are never retried by it.
func DefaultRetryPolicy() retry.Policy {
	var p retry.Policy = retry.ExponentialBackoff{Base: 100 * time.Millisecond}
	p = retry.WithMaxAttempts(p, 10)
	p = retry.WithJitter(p, 0.25)
	return retry.If(p, DefaultRetryable)
}

// GetObject fetches the value stored under the requested key. It performs
// exactly one attempt; failures are classified and surfaced immediately.
//
// A success status whose body decodes without a value is a server contract
// violation (the server encodes "no such key" as an explicit error status),
// and is surfaced as KindContractViolation rather than as a missing key.
func (c *Client) GetObject(ctx context.Context, request *vsstypes.GetObjectRequest) (*vsstypes.GetObjectResponse, error) {
	payload, cerr := c.post(ctx, "GetObject", pathGetObject, request.Marshal())
	if cerr != nil {
		return nil, cerr
	}

	response := new(vsstypes.GetObjectResponse)
	if err := response.Unmarshal(payload); err != nil {
		return nil, malformedError("GetObject", err)
	}
	if response.Value == nil {
		return nil, contractViolation("GetObject",
			"expected value in GetObjectResponse but found none")
	}
	return response, nil
}

// PutObject writes all transaction items of the request in a single
// all-or-nothing transaction.
//
// PutObject is the only operation the retry policy wraps: each attempt
// re-runs the full encode, send and decode sequence, attempts are strictly
// sequential, and the policy alone bounds how many happen. When the policy
// stops, the classified error of the final attempt is returned unchanged.
// The request is replay-safe from the server's perspective, so retrying a
// conditional write cannot double-apply it.
func (c *Client) PutObject(ctx context.Context, request *vsstypes.PutObjectRequest) (*vsstypes.PutObjectResponse, error) {
	var response *vsstypes.PutObjectResponse
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		payload, cerr := c.post(ctx, "PutObject", pathPutObjects, request.Marshal())
		if cerr != nil {
			return cerr
		}
		r := new(vsstypes.PutObjectResponse)
		if err := r.Unmarshal(payload); err != nil {
			return malformedError("PutObject", err)
		}
		response = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// DeleteObject removes one key, optionally conditional on an expected
// version. Single attempt, never retried.
func (c *Client) DeleteObject(ctx context.Context, request *vsstypes.DeleteObjectRequest) (*vsstypes.DeleteObjectResponse, error) {
	payload, cerr := c.post(ctx, "DeleteObject", pathDeleteObject, request.Marshal())
	if cerr != nil {
		return nil, cerr
	}

	response := new(vsstypes.DeleteObjectResponse)
	if err := response.Unmarshal(payload); err != nil {
		return nil, malformedError("DeleteObject", err)
	}
	return response, nil
}

// ListKeyVersions enumerates keys and their current versions, page by page.
// Callers use it to discover versions before issuing conditional writes.
// Single attempt, never retried.
func (c *Client) ListKeyVersions(ctx context.Context, request *vsstypes.ListKeyVersionsRequest) (*vsstypes.ListKeyVersionsResponse, error) {
	payload, cerr := c.post(ctx, "ListKeyVersions", pathListKeyVersions, request.Marshal())
	if cerr != nil {
		return nil, cerr
	}

	response := new(vsstypes.ListKeyVersionsResponse)
	if err := response.Unmarshal(payload); err != nil {
		return nil, malformedError("ListKeyVersions", err)
	}
	return response, nil
}

// post runs one round-trip: POST the encoded request body, read the full
// response body, classify anything that is not a 2xx. The returned payload
// bytes are handed to the caller untouched.
func (c *Client) post(ctx context.Context, op, path string, body []byte) ([]byte, *Error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(op, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debugf("%s %s: transport failure: %v", op, url, err)
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(op, err)
	}

	c.log.Debugf("%s %s: status=%d bytes=%d", op, url, resp.StatusCode, len(payload))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, payload)
	}
	return payload, nil
}
