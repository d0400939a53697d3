package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHFClient(baseURL string) *HFClient {
	return NewHFClient(HFConfig{
		APIKey:      "test-key",
		Model:       "test-model",
		BaseURL:     baseURL,
		BackoffUnit: time.Millisecond,
	}, nil)
}

func TestCompleteDisabledWithoutCredentials(t *testing.T) {
	c := NewHFClient(HFConfig{}, nil)
	assert.False(t, c.Enabled())

	text, err := c.Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteParsesListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/test-model", r.URL.Path)
		w.Write([]byte(`[{"generated_text":"Irrigate at dawn."}]`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "Irrigate at dawn.", text)
}

func TestCompleteParsesObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text":"Check soil moisture."}`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "Check soil moisture.", text)
}

func TestCompletePollsWhileModelLoading(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"Model test-model is currently loading"}`))
			return
		}
		w.Write([]byte(`[{"generated_text":"ready"}]`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "ready", text)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestCompleteGivesUpAfterLoadingPolls(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model test-model is currently loading"}`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Empty(t, text)
	// The first request plus three loading polls.
	assert.Equal(t, int64(4), atomic.LoadInt64(&calls))
}

func TestCompleteRetriesRetryableStatus(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"generated_text":"after retry"}]`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "after retry", text)
}

func TestCompleteBoundedRetries(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestCompleteNonRetryableStatusStopsImmediately(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	text, err := testHFClient(srv.URL).Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCompleteRetriesTransportErrors(t *testing.T) {
	// Nothing is listening on this port; every attempt fails in transport.
	c := testHFClient("http://127.0.0.1:1")

	text, err := c.Complete(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model test-model is currently loading"}`))
	}))
	defer srv.Close()

	c := NewHFClient(HFConfig{
		APIKey:      "test-key",
		Model:       "test-model",
		BaseURL:     srv.URL,
		BackoffUnit: time.Second,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "prompt", 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 502, 503, 504} {
		assert.True(t, retryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 400, 401, 404, 500} {
		assert.False(t, retryableStatus(code), "status %d", code)
	}
}
