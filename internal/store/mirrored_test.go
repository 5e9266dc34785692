package store

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo/lexigo/internal/model"
)

// fakeStore records calls and answers with canned values.
type fakeStore struct {
	err   error
	words []model.SavedWord
	cats  []model.Category
	calls []string
}

func (f *fakeStore) record(op string) { f.calls = append(f.calls, op) }

func (f *fakeStore) SaveWord(_ context.Context, _ string, w model.SavedWord) (string, error) {
	f.record("save")
	if f.err != nil {
		return "", f.err
	}
	f.words = append(f.words, w)
	return "id-" + w.Word, nil
}

func (f *fakeStore) GetWord(context.Context, string, string, string) (model.SavedWord, error) {
	f.record("get")
	if f.err != nil {
		return model.SavedWord{}, f.err
	}
	if len(f.words) == 0 {
		return model.SavedWord{}, ErrNotFound
	}
	return f.words[0], nil
}

func (f *fakeStore) ListWords(context.Context, string, string) ([]model.SavedWord, error) {
	f.record("list")
	return f.words, f.err
}

func (f *fakeStore) DeleteWord(context.Context, string, string, string) error {
	f.record("delete")
	return f.err
}

func (f *fakeStore) ClearCategory(context.Context, string, string) (int, error) {
	f.record("clear")
	return len(f.words), f.err
}

func (f *fakeStore) CreateCategory(context.Context, string, model.Category) error {
	f.record("create_cat")
	return f.err
}

func (f *fakeStore) ListCategories(context.Context, string) ([]model.Category, error) {
	f.record("list_cats")
	return f.cats, f.err
}

func (f *fakeStore) DeleteCategory(context.Context, string, string) error {
	f.record("delete_cat")
	return f.err
}

func (f *fakeStore) Watch(context.Context, string, string) (<-chan []model.SavedWord, error) {
	f.record("watch")
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan []model.SavedWord, 1)
	ch <- f.words
	return ch, nil
}

func (f *fakeStore) Migrate(context.Context) error {
	f.record("migrate")
	return f.err
}

func (f *fakeStore) Close() error { return nil }

var errRemoteDown = eris.New("deadline exceeded")

func TestMirrored_RemoteHealthy(t *testing.T) {
	remote := &fakeStore{words: []model.SavedWord{{Word: "water"}}}
	offline := &fakeStore{}
	m := NewMirrored(remote, offline)

	id, err := m.SaveWord(context.Background(), "u1", model.SavedWord{Word: "fire"})
	require.NoError(t, err)
	assert.Equal(t, "id-fire", id)

	words, err := m.ListWords(context.Background(), "u1", "basics")
	require.NoError(t, err)
	assert.Len(t, words, 2)

	assert.Empty(t, offline.calls, "the offline store is untouched while the remote answers")
}

func TestMirrored_FallsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeStore{err: errRemoteDown}
	offline := &fakeStore{words: []model.SavedWord{{Word: "cached"}}}
	m := NewMirrored(remote, offline)

	id, err := m.SaveWord(context.Background(), "u1", model.SavedWord{Word: "water"})
	require.NoError(t, err)
	assert.Equal(t, "id-water", id)

	words, err := m.ListWords(context.Background(), "u1", "basics")
	require.NoError(t, err)
	assert.Equal(t, "cached", words[0].Word)

	w, err := m.GetWord(context.Background(), "u1", "basics", "any")
	require.NoError(t, err)
	assert.Equal(t, "cached", w.Word)

	require.NoError(t, m.CreateCategory(context.Background(), "u1", model.Category{Slug: "basics"}))
	_, err = m.ClearCategory(context.Background(), "u1", "basics")
	require.NoError(t, err)
	_, err = m.ListCategories(context.Background(), "u1")
	require.NoError(t, err)

	ch, err := m.Watch(context.Background(), "u1", "basics")
	require.NoError(t, err)
	assert.NotNil(t, ch)
}

func TestMirrored_RemoteNotFoundIsFinal(t *testing.T) {
	// A genuine not-found from the remote store must not be retried against
	// the offline store, where the entity never existed either.
	remote := &fakeStore{err: eris.Wrap(ErrNotFound, "word w1")}
	offline := &fakeStore{}
	m := NewMirrored(remote, offline)

	err := m.DeleteWord(context.Background(), "u1", "basics", "w1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, offline.calls)

	err = m.DeleteCategory(context.Background(), "u1", "basics")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, offline.calls)
}

func TestMirrored_DeleteFallsBackOnOutage(t *testing.T) {
	remote := &fakeStore{err: errRemoteDown}
	offline := &fakeStore{}
	m := NewMirrored(remote, offline)

	require.NoError(t, m.DeleteWord(context.Background(), "u1", "basics", "w1"))
	assert.Equal(t, []string{"delete"}, offline.calls)
}

func TestMirrored_MigrateRunsBoth(t *testing.T) {
	remote := &fakeStore{}
	offline := &fakeStore{}
	m := NewMirrored(remote, offline)

	require.NoError(t, m.Migrate(context.Background()))
	assert.Equal(t, []string{"migrate"}, remote.calls)
	assert.Equal(t, []string{"migrate"}, offline.calls)
}
