// Package store persists saved words and categories. The remote document
// store is the primary backend; a local database serves as the offline
// fallback. All operations are scoped under a per-user namespace.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lexigo/lexigo/internal/model"
)

// ErrNotFound is returned for a missing word or category.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence operations for the personal dictionary.
type Store interface {
	// SaveWord persists a word into a category and returns its ID.
	SaveWord(ctx context.Context, userID string, w model.SavedWord) (string, error)
	// GetWord returns a single word by ID.
	GetWord(ctx context.Context, userID, category, wordID string) (model.SavedWord, error)
	// ListWords returns the words of a category, newest first.
	ListWords(ctx context.Context, userID, category string) ([]model.SavedWord, error)
	// DeleteWord removes a single word.
	DeleteWord(ctx context.Context, userID, category, wordID string) error
	// ClearCategory removes every word of a category in one batched
	// operation and returns how many were deleted.
	ClearCategory(ctx context.Context, userID, category string) (int, error)

	// CreateCategory registers a category under the user's namespace.
	CreateCategory(ctx context.Context, userID string, c model.Category) error
	// ListCategories returns the user's categories with word counts.
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	// DeleteCategory removes a category and all of its words.
	DeleteCategory(ctx context.Context, userID, slug string) error

	// Watch streams the word list of a category whenever it changes. The
	// channel closes when ctx is done or the subscription breaks.
	Watch(ctx context.Context, userID, category string) (<-chan []model.SavedWord, error)

	// Migrate creates or updates the backing schema where applicable.
	Migrate(ctx context.Context) error
	Close() error
}
