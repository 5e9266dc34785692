package mymemory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Translate_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "hello world", r.URL.Query().Get("q"))
		assert.Equal(t, "en|vi", r.URL.Query().Get("langpair"))
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"xin chào thế giới","match":0.98}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.Translate(context.Background(), "hello world", "en", "vi")

	require.NoError(t, err)
	assert.Equal(t, "xin chào thế giới", got)
}

func TestClient_Translate_EmptyTranslation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The service reports quota exhaustion inside a 200 envelope with
		// blank text.
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"   "}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Translate(context.Background(), "hello", "en", "vi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty translation")
}

func TestClient_Translate_EnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseStatus":403,"responseData":{"translatedText":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Translate(context.Background(), "hello", "en", "vi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Translate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Translate(context.Background(), "hello", "en", "vi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
