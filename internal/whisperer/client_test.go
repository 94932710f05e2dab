package whisperer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client := NewClient(&Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Logger:  zerolog.Nop(),
	})
	// Keep the tests fast; the attempt cap semantics are unchanged
	client.pollInterval = time.Millisecond
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestExtractTextNotConfigured(t *testing.T) {
	client := NewClient(&Config{Logger: zerolog.Nop()})

	_, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestExtractTextImmediateResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, submitPath, r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get(apiKeyHeader))

		writeJSON(t, w, map[string]string{
			"status":         "processed",
			"extracted_text": "15 Aug  Salary  1,000.00Cr  5,432.10Cr",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "15 Aug  Salary  1,000.00Cr  5,432.10Cr", text)
}

func TestExtractTextAsyncPolling(t *testing.T) {
	var statusCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			require.Equal(t, "abc123", r.URL.Query().Get("whisper_hash"))
			if atomic.AddInt32(&statusCalls, 1) < 3 {
				writeJSON(t, w, map[string]string{"status": "processing"})
				return
			}
			writeJSON(t, w, map[string]string{"status": "processed", "result_text": "statement text"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "statement text", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&statusCalls))
}

func TestExtractTextRetrievesWhenStatusHasNoText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			writeJSON(t, w, map[string]string{"status": "processed"})
		case retrievePath:
			require.Equal(t, "abc123", r.URL.Query().Get("whisper_hash"))
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("retrieved text\n"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "retrieved text", text)
}

func TestExtractTextUnknownStatusKeepsPolling(t *testing.T) {
	var statusCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			if atomic.AddInt32(&statusCalls, 1) == 1 {
				writeJSON(t, w, map[string]string{"status": "delivered_to_queue"})
				return
			}
			writeJSON(t, w, map[string]string{"status": "success", "extracted_text": "done"})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	text, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}

func TestExtractTextRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			writeJSON(t, w, map[string]string{"status": "error", "message": "document is encrypted"})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "abc123", remoteErr.WhisperHash)
	assert.Contains(t, remoteErr.Message, "encrypted")
}

func TestExtractTextPollTimeout(t *testing.T) {
	var statusCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			atomic.AddInt32(&statusCalls, 1)
			writeJSON(t, w, map[string]string{"status": "processing"})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)

	var timeoutErr *PollTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "abc123", timeoutErr.WhisperHash)
	assert.Equal(t, 30, timeoutErr.Attempts)

	// The status endpoint is polled exactly once per attempt
	assert.Equal(t, int32(30), atomic.LoadInt32(&statusCalls))
}

func TestExtractTextHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)

	var httpErr *HTTPStatusError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestExtractTextEmptyRetrieveResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case submitPath:
			writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
		case statusPath:
			writeJSON(t, w, map[string]string{"status": "processed"})
		case retrievePath:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("   \n"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ExtractText(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestExtractTextContextCancelledDuringPoll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"status": "processing", "whisper_hash": "abc123"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.pollInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.ExtractText(ctx, []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
