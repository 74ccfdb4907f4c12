package vss_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versionedstorage/vss-go/pkg/retry"
	"github.com/versionedstorage/vss-go/pkg/vss"
	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

// quickPolicy retries transport/server errors with a negligible delay so
// tests finish fast. No attempt cap: the scenarios themselves bound attempts.
func quickPolicy() retry.Policy {
	return retry.If(retry.ExponentialBackoff{Base: time.Microsecond}, vss.DefaultRetryable)
}

func conflictBody() []byte {
	return (&vsstypes.ErrorResponse{
		Code:    vsstypes.ErrorCodeConflictException,
		Message: "expected version mismatch",
	}).Marshal()
}

func serverFailureBody() []byte {
	return (&vsstypes.ErrorResponse{
		Code:    vsstypes.ErrorCodeInternalServerException,
		Message: "try again",
	}).Marshal()
}

func TestGetObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getObject", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req vsstypes.GetObjectRequest
		require.NoError(t, req.Unmarshal(body))
		assert.Equal(t, "store-1", req.StoreID)
		assert.Equal(t, "k1", req.Key)

		resp := vsstypes.GetObjectResponse{
			Value: &vsstypes.KeyValue{Key: "k1", Version: 7, Value: []byte("payload")},
		}
		w.Write(resp.Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	resp, err := client.GetObject(context.Background(), &vsstypes.GetObjectRequest{
		StoreID: "store-1",
		Key:     "k1",
	})
	require.NoError(t, err)
	assert.Equal(t, "k1", resp.Value.Key)
	assert.Equal(t, int64(7), resp.Value.Version)
	assert.Equal(t, []byte("payload"), resp.Value.Value)
}

// A success status whose body decodes but carries no value is a server bug,
// and must surface as a contract violation: not as a decode error, and never
// as a synthetic empty success.
func TestGetObjectMissingValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write((&vsstypes.GetObjectResponse{}).Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	resp, err := client.GetObject(context.Background(), &vsstypes.GetObjectRequest{
		StoreID: "store-1",
		Key:     "missing",
	})
	require.Nil(t, resp)
	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindContractViolation, vssErr.Kind)
}

func TestGetObjectMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 0xff is an unterminated varint tag: undecodable on its own.
		w.Write([]byte{0xff})
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	_, err := client.GetObject(context.Background(), &vsstypes.GetObjectRequest{
		StoreID: "store-1",
		Key:     "k1",
	})
	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindMalformedResponse, vssErr.Kind)
}

func TestGetObjectTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := vss.New(nil, srv.URL, quickPolicy())
	_, err := client.GetObject(context.Background(), &vsstypes.GetObjectRequest{
		StoreID: "store-1",
		Key:     "k1",
	})
	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindTransport, vssErr.Kind)
	assert.NotNil(t, vssErr.Unwrap())
}

// Server errors on attempts 1..k and a client error on attempt k+1, under a
// policy retrying only server errors: exactly k+1 transport calls and the
// client error surfaced with its status and body intact.
func TestPutObjectRetriesUntilClientError(t *testing.T) {
	const serverErrAttempts = 3

	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/putObjects", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req vsstypes.PutObjectRequest
		require.NoError(t, req.Unmarshal(body))
		require.Equal(t, "store-1", req.StoreID)
		require.Len(t, req.TransactionItems, 2)

		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n <= serverErrAttempts {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(serverFailureBody())
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write(conflictBody())
	}))
	defer srv.Close()

	expected := int64(4)
	client := vss.New(nil, srv.URL, quickPolicy())
	_, err := client.PutObject(context.Background(), &vsstypes.PutObjectRequest{
		StoreID: "store-1",
		TransactionItems: []vsstypes.TransactionItem{
			{Key: "a", Value: []byte("va")},
			{Key: "b", Value: []byte("vb"), ExpectedVersion: &expected},
		},
	})

	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindClientError, vssErr.Kind)
	assert.Equal(t, http.StatusConflict, vssErr.StatusCode)
	assert.Equal(t, conflictBody(), vssErr.Body)
	assert.True(t, vssErr.IsConflict())
	assert.Equal(t, serverErrAttempts+1, calls)
}

func TestPutObjectSingleCallOnSuccess(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Write((&vsstypes.PutObjectResponse{}).Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	resp, err := client.PutObject(context.Background(), &vsstypes.PutObjectRequest{
		StoreID:          "store-1",
		TransactionItems: []vsstypes.TransactionItem{{Key: "k", Value: []byte("v")}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, calls)
}

// Get, Delete and List must never consult the retry policy, even when the
// client is configured with one that would retry the error.
func TestNoRetryOutsidePut(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(serverFailureBody())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	ctx := context.Background()

	_, err := client.GetObject(ctx, &vsstypes.GetObjectRequest{StoreID: "s", Key: "k"})
	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindServerError, vssErr.Kind)

	_, err = client.DeleteObject(ctx, &vsstypes.DeleteObjectRequest{StoreID: "s", Key: "k"})
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindServerError, vssErr.Kind)

	_, err = client.ListKeyVersions(ctx, &vsstypes.ListKeyVersionsRequest{StoreID: "s"})
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindServerError, vssErr.Kind)

	assert.Equal(t, 1, calls["/getObject"])
	assert.Equal(t, 1, calls["/deleteObject"])
	assert.Equal(t, 1, calls["/listKeyVersions"])
}

func TestDeleteObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req vsstypes.DeleteObjectRequest
		require.NoError(t, req.Unmarshal(body))
		assert.Equal(t, "store-1", req.StoreID)
		assert.Equal(t, "gone", req.Key)
		require.NotNil(t, req.ExpectedVersion)
		assert.Equal(t, int64(3), *req.ExpectedVersion)

		w.Write((&vsstypes.DeleteObjectResponse{}).Marshal())
	}))
	defer srv.Close()

	ev := int64(3)
	client := vss.New(nil, srv.URL, quickPolicy())
	_, err := client.DeleteObject(context.Background(), &vsstypes.DeleteObjectRequest{
		StoreID:         "store-1",
		Key:             "gone",
		ExpectedVersion: &ev,
	})
	require.NoError(t, err)
}

func TestListKeyVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req vsstypes.ListKeyVersionsRequest
		require.NoError(t, req.Unmarshal(body))
		assert.Equal(t, "store-1", req.StoreID)
		assert.Equal(t, "app/", req.KeyPrefix)
		assert.Equal(t, int32(2), req.PageSize)

		resp := vsstypes.ListKeyVersionsResponse{
			KeyVersions: []vsstypes.KeyValue{
				{Key: "app/a", Version: 1},
				{Key: "app/b", Version: 5},
			},
			NextPageToken: "page-2",
		}
		w.Write(resp.Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())
	resp, err := client.ListKeyVersions(context.Background(), &vsstypes.ListKeyVersionsRequest{
		StoreID:   "store-1",
		KeyPrefix: "app/",
		PageSize:  2,
	})
	require.NoError(t, err)
	require.Len(t, resp.KeyVersions, 2)
	assert.Equal(t, "app/a", resp.KeyVersions[0].Key)
	assert.Equal(t, int64(1), resp.KeyVersions[0].Version)
	assert.Equal(t, "app/b", resp.KeyVersions[1].Key)
	assert.Equal(t, int64(5), resp.KeyVersions[1].Version)
	assert.Equal(t, "page-2", resp.NextPageToken)
}

// The raw status and body bytes must survive into the surfaced error even
// when the body is not a decodable ErrorResponse.
func TestErrorPreservesStatusAndBody(t *testing.T) {
	rawBody := []byte("upstream exploded in an unstructured way")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(rawBody)
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, retry.None())
	_, err := client.PutObject(context.Background(), &vsstypes.PutObjectRequest{
		StoreID:          "store-1",
		TransactionItems: []vsstypes.TransactionItem{{Key: "k", Value: []byte("v")}},
	})

	var vssErr *vss.Error
	require.ErrorAs(t, err, &vssErr)
	assert.Equal(t, vss.KindServerError, vssErr.Kind)
	assert.Equal(t, http.StatusBadGateway, vssErr.StatusCode)
	assert.Equal(t, rawBody, vssErr.Body)
}

// Many concurrent puts against one client, each failing once before
// succeeding: every call must retry independently with no cross-call state.
func TestConcurrentPutsRetryIndependently(t *testing.T) {
	const goroutines = 8

	var mu sync.Mutex
	attempts := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req vsstypes.PutObjectRequest
		require.NoError(t, req.Unmarshal(body))

		mu.Lock()
		attempts[req.StoreID]++
		n := attempts[req.StoreID]
		mu.Unlock()

		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write(serverFailureBody())
			return
		}
		w.Write((&vsstypes.PutObjectResponse{}).Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL, quickPolicy())

	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store := "store-" + string(rune('a'+i))
			_, errs[i] = client.PutObject(context.Background(), &vsstypes.PutObjectRequest{
				StoreID:          store,
				TransactionItems: []vsstypes.TransactionItem{{Key: "k", Value: []byte("v")}},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d", i)
	}
	for store, n := range attempts {
		assert.Equal(t, 2, n, "store %s", store)
	}
	assert.Len(t, attempts, goroutines)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getObject", r.URL.Path)
		resp := vsstypes.GetObjectResponse{Value: &vsstypes.KeyValue{Key: "k", Version: 1}}
		w.Write(resp.Marshal())
	}))
	defer srv.Close()

	client := vss.New(nil, srv.URL+"/", quickPolicy())
	assert.Equal(t, srv.URL, client.BaseURL())

	_, err := client.GetObject(context.Background(), &vsstypes.GetObjectRequest{StoreID: "s", Key: "k"})
	require.NoError(t, err)
}
