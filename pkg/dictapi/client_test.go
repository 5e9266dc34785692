package dictapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Entries_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/entries/en/hello", r.URL.Path)
		_, _ = w.Write([]byte(`[{"word":"hello","phonetics":[{"text":"/həˈləʊ/","audio":"https://cdn/hello.mp3"}],"meanings":[{"partOfSpeech":"exclamation","definitions":[{"definition":"a greeting","example":"hello there"}]}]}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/api/v2"))
	entries, err := c.Entries(context.Background(), "hello")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Word)
	assert.Equal(t, "/həˈləʊ/", entries[0].Phonetics[0].Text)
	assert.Equal(t, "exclamation", entries[0].Meanings[0].PartOfSpeech)
	assert.Equal(t, "hello there", entries[0].Meanings[0].Definitions[0].Example)
}

func TestClient_Entries_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"No Definitions Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Entries(context.Background(), "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Entries_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Entries(context.Background(), "hollow")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Entries_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Entries(context.Background(), "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
