// Request and response messages for the Versioned Storage Service (VSS) API.
// These mirror the server's protobuf schema; wire.go carries the codec.
package vsstypes

// KeyValue is a single stored item: an opaque key, the payload bytes and the
// server-assigned version. Versions are concurrency tokens and only ever
// compared for equality; clients must not interpret their magnitude.
// ListKeyVersions returns KeyValues with an empty Value.
type KeyValue struct {
	Key     string
	Version int64
	Value   []byte
}

// TransactionItem is one entry of an atomic PutObject request.
//
// A nil ExpectedVersion writes unconditionally (create or overwrite). A
// non-nil ExpectedVersion makes the whole transaction conditional on the
// stored version of Key still matching it.
type TransactionItem struct {
	Key             string
	Value           []byte
	Version         int64
	ExpectedVersion *int64
}

// GetObjectRequest fetches the value stored under Key in StoreID.
type GetObjectRequest struct {
	StoreID string
	Key     string
}

// GetObjectResponse carries the fetched item. Value is mandatory on success;
// the server reports a missing key through an error status, never through an
// empty response.
type GetObjectResponse struct {
	Value *KeyValue
}

// PutObjectRequest writes all TransactionItems to StoreID in a single
// all-or-nothing transaction. Item keys must be unique within one request;
// the server enforces this and the client does not deduplicate.
type PutObjectRequest struct {
	StoreID          string
	TransactionItems []TransactionItem
}

// PutObjectResponse acknowledges a committed transaction. It carries no
// payload.
type PutObjectResponse struct {
}

// DeleteObjectRequest removes the item stored under Key in StoreID,
// optionally conditional on ExpectedVersion.
type DeleteObjectRequest struct {
	StoreID         string
	Key             string
	ExpectedVersion *int64
}

// DeleteObjectResponse acknowledges a delete. It carries no payload.
type DeleteObjectResponse struct {
}

// ListKeyVersionsRequest enumerates keys and their current versions in
// StoreID. KeyPrefix, PageSize and PageToken are optional; a zero PageSize
// lets the server pick a page size.
type ListKeyVersionsRequest struct {
	StoreID   string
	KeyPrefix string
	PageSize  int32
	PageToken string
}

// ListKeyVersionsResponse holds one page of (key, version) pairs, in server
// order. NextPageToken is empty on the last page.
type ListKeyVersionsResponse struct {
	KeyVersions   []KeyValue
	NextPageToken string
}

// ErrorCode identifies the application-level failure reported by the server
// in an ErrorResponse body.
type ErrorCode int32

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodeInternalServerException
	ErrorCodeConflictException
	ErrorCodeInvalidRequestException
	ErrorCodeNoSuchKeyException
	ErrorCodeAuthException
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeInternalServerException:
		return "INTERNAL_SERVER_EXCEPTION"
	case ErrorCodeConflictException:
		return "CONFLICT_EXCEPTION"
	case ErrorCodeInvalidRequestException:
		return "INVALID_REQUEST_EXCEPTION"
	case ErrorCodeNoSuchKeyException:
		return "NO_SUCH_KEY_EXCEPTION"
	case ErrorCodeAuthException:
		return "AUTH_EXCEPTION"
	default:
		return "UNKNOWN"
	}
}

// ErrorResponse is the body the server attaches to non-2xx statuses.
type ErrorResponse struct {
	Code    ErrorCode
	Message string
}
