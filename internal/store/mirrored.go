package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lexigo/lexigo/internal/model"
)

// Mirrored fronts a remote store with a local offline fallback. Reads and
// subscriptions prefer the remote store and fall back on error; writes
// that fail remotely land in the offline store instead so a flaky
// connection never loses a saved word.
type Mirrored struct {
	remote  Store
	offline Store
}

// NewMirrored wraps remote with offline as its fallback.
func NewMirrored(remote, offline Store) *Mirrored {
	return &Mirrored{remote: remote, offline: offline}
}

func (m *Mirrored) degraded(op string, err error) {
	zap.L().Warn("store: remote unavailable, using offline fallback",
		zap.String("op", op),
		zap.Error(err),
	)
}

// SaveWord writes to the remote store, falling back to the offline store.
func (m *Mirrored) SaveWord(ctx context.Context, userID string, w model.SavedWord) (string, error) {
	id, err := m.remote.SaveWord(ctx, userID, w)
	if err == nil {
		return id, nil
	}
	m.degraded("save_word", err)
	return m.offline.SaveWord(ctx, userID, w)
}

// GetWord reads from the remote store, falling back to the offline store.
// A genuine not-found from the remote is final.
func (m *Mirrored) GetWord(ctx context.Context, userID, category, wordID string) (model.SavedWord, error) {
	w, err := m.remote.GetWord(ctx, userID, category, wordID)
	if err == nil || isNotFound(err) {
		return w, err
	}
	m.degraded("get_word", err)
	return m.offline.GetWord(ctx, userID, category, wordID)
}

// ListWords reads from the remote store, falling back to the offline store.
func (m *Mirrored) ListWords(ctx context.Context, userID, category string) ([]model.SavedWord, error) {
	words, err := m.remote.ListWords(ctx, userID, category)
	if err == nil {
		return words, nil
	}
	m.degraded("list_words", err)
	return m.offline.ListWords(ctx, userID, category)
}

// DeleteWord deletes remotely, falling back to the offline store.
func (m *Mirrored) DeleteWord(ctx context.Context, userID, category, wordID string) error {
	err := m.remote.DeleteWord(ctx, userID, category, wordID)
	if err == nil || isNotFound(err) {
		return err
	}
	m.degraded("delete_word", err)
	return m.offline.DeleteWord(ctx, userID, category, wordID)
}

// ClearCategory clears remotely, falling back to the offline store.
func (m *Mirrored) ClearCategory(ctx context.Context, userID, category string) (int, error) {
	n, err := m.remote.ClearCategory(ctx, userID, category)
	if err == nil {
		return n, nil
	}
	m.degraded("clear_category", err)
	return m.offline.ClearCategory(ctx, userID, category)
}

// CreateCategory creates remotely, falling back to the offline store.
func (m *Mirrored) CreateCategory(ctx context.Context, userID string, c model.Category) error {
	err := m.remote.CreateCategory(ctx, userID, c)
	if err == nil {
		return nil
	}
	m.degraded("create_category", err)
	return m.offline.CreateCategory(ctx, userID, c)
}

// ListCategories lists remotely, falling back to the offline store.
func (m *Mirrored) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	cats, err := m.remote.ListCategories(ctx, userID)
	if err == nil {
		return cats, nil
	}
	m.degraded("list_categories", err)
	return m.offline.ListCategories(ctx, userID)
}

// DeleteCategory deletes remotely, falling back to the offline store.
func (m *Mirrored) DeleteCategory(ctx context.Context, userID, slug string) error {
	err := m.remote.DeleteCategory(ctx, userID, slug)
	if err == nil || isNotFound(err) {
		return err
	}
	m.degraded("delete_category", err)
	return m.offline.DeleteCategory(ctx, userID, slug)
}

// Watch subscribes remotely, falling back to the offline store.
func (m *Mirrored) Watch(ctx context.Context, userID, category string) (<-chan []model.SavedWord, error) {
	ch, err := m.remote.Watch(ctx, userID, category)
	if err == nil {
		return ch, nil
	}
	m.degraded("watch", err)
	return m.offline.Watch(ctx, userID, category)
}

// Migrate migrates both stores; the remote migration error wins.
func (m *Mirrored) Migrate(ctx context.Context) error {
	if err := m.offline.Migrate(ctx); err != nil {
		return err
	}
	return m.remote.Migrate(ctx)
}

// Close closes both stores.
func (m *Mirrored) Close() error {
	offErr := m.offline.Close()
	if err := m.remote.Close(); err != nil {
		return err
	}
	return offErr
}

// isNotFound keeps genuine not-found answers from the remote store from
// being retried offline, where the entity never existed either.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
