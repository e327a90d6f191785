package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Girbilcannon/DecoToolsHelper/internal/httpclient"
)

// newTestServer disables keep-alives so closing one server does not disturb
// parallel tests sharing the default transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestDefaultClient_Get_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "200 with id list", status: http.StatusOK, body: `[1,2,3]`},
		{name: "206 partial content is accepted", status: http.StatusPartialContent, body: `[{"id":1}]`},
		{name: "empty array", status: http.StatusOK, body: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var userAgent, accept string
			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userAgent = r.Header.Get("User-Agent")
				accept = r.Header.Get("Accept")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			data, err := httpclient.NewDefaultClient(5*time.Second).Get(context.Background(), server.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(data))
			assert.Equal(t, httpclient.UserAgent, userAgent)
			assert.Equal(t, "application/json", accept)
		})
	}
}

func TestDefaultClient_Get_StatusErrors(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
			require.Error(t, err)

			var httpErr *httpclient.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, status, httpErr.StatusCode)
			assert.Equal(t, server.URL, httpErr.URL)
		})
	}
}

func TestDefaultClient_Get_ResponseTooLarge(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// no Content-Length: exercises the LimitReader path
		w.Header().Set("Transfer-Encoding", "chunked")
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(0, httpclient.WithMaxResponseSize(16))
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
}

func TestDefaultClient_Get_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := httpclient.NewDefaultClient(0).Get(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultClient_Get_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := httpclient.NewDefaultClient(0).Get(context.Background(), "://bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create request")
}

func TestHTTPError_Error(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(503, "https://api.example.com/v2/guild/upgrades", "503 Service Unavailable")
	assert.Equal(t, "HTTP 503 for URL https://api.example.com/v2/guild/upgrades: 503 Service Unavailable", err.Error())
}

func TestDefaultClient_WithUserAgent(t *testing.T) {
	t.Parallel()

	var userAgent string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(0, httpclient.WithUserAgent("DecoToolsHelper/v1.2.0"))
	_, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "DecoToolsHelper/v1.2.0", userAgent)
}
