package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClient_FetchText_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lexigo/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	body, err := c.FetchText(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", body)
}

func TestClient_FetchText_HeadersReplaceDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Caller-supplied headers replace the default set entirely.
		assert.Empty(t, r.Header.Get("Accept"))
		assert.Equal(t, "abc", r.Header.Get("X-Custom"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.FetchText(context.Background(), srv.URL, map[string]string{"X-Custom": "abc"})
	require.NoError(t, err)
}

func TestClient_FetchText_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	c := NewClient(Options{Timeout: 50 * time.Millisecond})
	_, err := c.FetchText(context.Background(), srv.URL, nil)

	require.Error(t, err)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 50*time.Millisecond, te.Budget)
	assert.True(t, te.Timeout())
}

func TestClient_FetchText_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Options{})
	_, err := c.FetchText(context.Background(), srv.URL, nil)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClient_FetchText_PerHostRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c := NewClient(Options{
		RateLimiters: map[string]*rate.Limiter{
			u.Host: rate.NewLimiter(rate.Every(150*time.Millisecond), 1),
		},
	})

	start := time.Now()
	_, err = c.FetchText(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	_, err = c.FetchText(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond,
		"the second request must wait on the host limiter")
}

func TestClient_FetchText_OtherHostNotLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// A limiter for an unrelated host must not gate this request.
	c := NewClient(Options{
		RateLimiters: map[string]*rate.Limiter{
			"dictionary.example.org": rate.NewLimiter(rate.Every(time.Hour), 1),
		},
	})

	_, err := c.FetchText(context.Background(), srv.URL, nil)
	require.NoError(t, err)
}

func TestClient_FetchText_CallerCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := NewClient(Options{})
	_, err := c.FetchText(ctx, srv.URL, nil)

	require.Error(t, err)
	// A caller cancellation is not a fetch timeout.
	var te *TimeoutError
	assert.False(t, errors.As(err, &te))
}
