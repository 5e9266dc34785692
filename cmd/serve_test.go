package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo/lexigo/internal/lookup"
	"github.com/lexigo/lexigo/internal/model"
	"github.com/lexigo/lexigo/internal/store"
)

type stubLookup struct {
	res *lookup.Result
	err error
}

func (s *stubLookup) LookupAndTranslate(context.Context, string) (*lookup.Result, error) {
	return s.res, s.err
}

func newTestRouter(t *testing.T, svc lookupService) http.Handler {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return newRouter(svc, st, "local")
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, &stubLookup{})
	rec := doRequest(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Lookup_OK(t *testing.T) {
	h := newTestRouter(t, &stubLookup{res: &lookup.Result{
		Generation:  1,
		Lookup:      &model.LookupResult{Word: "water"},
		Translation: "nước",
	}})

	rec := doRequest(h, http.MethodGet, "/api/lookup/water", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var res lookup.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "water", res.Lookup.Word)
	assert.Equal(t, "nước", res.Translation)
}

func TestRouter_Lookup_NotFound(t *testing.T) {
	h := newTestRouter(t, &stubLookup{err: eris.Wrap(lookup.ErrLookupFailed, "zzzz")})
	rec := doRequest(h, http.MethodGet, "/api/lookup/zzzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Lookup_UpstreamFailure(t *testing.T) {
	h := newTestRouter(t, &stubLookup{err: eris.New("every relay timed out")})
	rec := doRequest(h, http.MethodGet, "/api/lookup/water", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_CategoryAndWordFlow(t *testing.T) {
	h := newTestRouter(t, &stubLookup{})

	rec := doRequest(h, http.MethodPost, "/api/categories/", `{"slug":"basics","name":"Basics"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(h, http.MethodPost, "/api/categories/basics/words", `{"word":"water","translation":"nước"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved model.SavedWord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "basics", saved.Category)

	rec = doRequest(h, http.MethodGet, "/api/categories/basics/words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var words []model.SavedWord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &words))
	require.Len(t, words, 1)
	assert.Equal(t, "water", words[0].Word)

	rec = doRequest(h, http.MethodGet, "/api/categories/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].WordCount)

	rec = doRequest(h, http.MethodGet, "/api/categories/basics/words/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.SavedWord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "water", got.Word)

	rec = doRequest(h, http.MethodDelete, "/api/categories/basics/words/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(h, http.MethodDelete, "/api/categories/basics/words/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(h, http.MethodDelete, "/api/categories/basics", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_SaveWord_Validation(t *testing.T) {
	h := newTestRouter(t, &stubLookup{})
	rec := doRequest(h, http.MethodPost, "/api/categories/basics/words", `{"translation":"nước"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ClearCategory(t *testing.T) {
	h := newTestRouter(t, &stubLookup{})

	doRequest(h, http.MethodPost, "/api/categories/basics/words", `{"word":"a"}`)
	doRequest(h, http.MethodPost, "/api/categories/basics/words", `{"word":"b"}`)

	rec := doRequest(h, http.MethodDelete, "/api/categories/basics/words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())
}
