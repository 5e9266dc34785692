package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/lexigo/lexigo/internal/model"
)

// watchPollInterval is how often polling-based Watch implementations
// re-read the category.
const watchPollInterval = 2 * time.Second

// SQLiteStore implements Store on a local database file. It is the offline
// fallback when the remote document store is unreachable, and the default
// backend for unauthenticated use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens the database at dsn and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS categories (
	user_id    TEXT NOT NULL,
	slug       TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (user_id, slug)
);

CREATE TABLE IF NOT EXISTS words (
	id                     TEXT PRIMARY KEY,
	user_id                TEXT NOT NULL,
	category               TEXT NOT NULL,
	word                   TEXT NOT NULL,
	translation            TEXT NOT NULL DEFAULT '',
	part_of_speech         TEXT NOT NULL DEFAULT '',
	definition             TEXT NOT NULL DEFAULT '',
	definition_translation TEXT NOT NULL DEFAULT '',
	example                TEXT NOT NULL DEFAULT '',
	pronunciation          TEXT NOT NULL DEFAULT '{}',
	created_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_words_user_category
	ON words (user_id, category, created_at DESC);
`

// Migrate creates the schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveWord inserts a word and returns its generated ID.
func (s *SQLiteStore) SaveWord(ctx context.Context, userID string, w model.SavedWord) (string, error) {
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	pron, err := json.Marshal(w.Pronunciation)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal pronunciation")
	}
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO words (id, user_id, category, word, translation, part_of_speech,
			definition, definition_translation, example, pronunciation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, w.Category, w.Word, w.Translation, w.PartOfSpeech,
		w.Definition, w.DefinitionTranslation, w.Example, string(pron), createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: save word")
	}
	return id, nil
}

// GetWord returns a single word by ID.
func (s *SQLiteStore) GetWord(ctx context.Context, userID, category, wordID string) (model.SavedWord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, word, translation, part_of_speech, definition,
			definition_translation, example, pronunciation, created_at
		FROM words
		WHERE user_id = ? AND category = ? AND id = ?`,
		userID, category, wordID,
	)

	var w model.SavedWord
	var pron string
	err := row.Scan(&w.ID, &w.Word, &w.Translation, &w.PartOfSpeech, &w.Definition,
		&w.DefinitionTranslation, &w.Example, &pron, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavedWord{}, eris.Wrapf(ErrNotFound, "word %s", wordID)
	}
	if err != nil {
		return model.SavedWord{}, eris.Wrap(err, "sqlite: get word")
	}
	if err := json.Unmarshal([]byte(pron), &w.Pronunciation); err != nil {
		return model.SavedWord{}, eris.Wrap(err, "sqlite: unmarshal pronunciation")
	}
	w.Category = category
	return w, nil
}

// ListWords returns the words of a category, newest first.
func (s *SQLiteStore) ListWords(ctx context.Context, userID, category string) ([]model.SavedWord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, word, translation, part_of_speech, definition,
			definition_translation, example, pronunciation, created_at
		FROM words
		WHERE user_id = ? AND category = ?
		ORDER BY created_at DESC, id`,
		userID, category,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list words")
	}
	defer func() { _ = rows.Close() }()

	var words []model.SavedWord
	for rows.Next() {
		var w model.SavedWord
		var pron string
		if err := rows.Scan(&w.ID, &w.Word, &w.Translation, &w.PartOfSpeech, &w.Definition,
			&w.DefinitionTranslation, &w.Example, &pron, &w.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan word")
		}
		if err := json.Unmarshal([]byte(pron), &w.Pronunciation); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal pronunciation")
		}
		w.Category = category
		words = append(words, w)
	}
	return words, rows.Err()
}

// DeleteWord removes one word.
func (s *SQLiteStore) DeleteWord(ctx context.Context, userID, category, wordID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM words WHERE user_id = ? AND category = ? AND id = ?`,
		userID, category, wordID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete word")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(ErrNotFound, "word %s", wordID)
	}
	return nil
}

// ClearCategory removes every word of a category.
func (s *SQLiteStore) ClearCategory(ctx context.Context, userID, category string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM words WHERE user_id = ? AND category = ?`,
		userID, category,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: clear category")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

// CreateCategory registers a category. Re-creating an existing slug is a
// no-op.
func (s *SQLiteStore) CreateCategory(ctx context.Context, userID string, c model.Category) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, slug, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, slug) DO NOTHING`,
		userID, c.Slug, c.Name, createdAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: create category")
	}
	return nil
}

// ListCategories returns the user's categories with word counts.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.slug, c.name, c.created_at, COUNT(w.id)
		FROM categories c
		LEFT JOIN words w ON w.user_id = c.user_id AND w.category = c.slug
		WHERE c.user_id = ?
		GROUP BY c.slug, c.name, c.created_at
		ORDER BY c.created_at`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list categories")
	}
	defer func() { _ = rows.Close() }()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Slug, &c.Name, &c.CreatedAt, &c.WordCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan category")
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// DeleteCategory removes a category and its words.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, userID, slug string) error {
	if _, err := s.ClearCategory(ctx, userID, slug); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = ? AND slug = ?`,
		userID, slug,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(ErrNotFound, "category %s", slug)
	}
	return nil
}

// Watch polls the category and emits the word list whenever it changes.
func (s *SQLiteStore) Watch(ctx context.Context, userID, category string) (<-chan []model.SavedWord, error) {
	return pollWatch(ctx, func(ctx context.Context) ([]model.SavedWord, error) {
		return s.ListWords(ctx, userID, category)
	})
}

// pollWatch implements Watch by periodic re-reads, shared by the local
// database backends. The first snapshot is emitted immediately.
func pollWatch(ctx context.Context, list func(ctx context.Context) ([]model.SavedWord, error)) (<-chan []model.SavedWord, error) {
	initial, err := list(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []model.SavedWord, 1)
	ch <- initial
	last, _ := json.Marshal(initial)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(watchPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			words, err := list(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				continue
			}
			cur, _ := json.Marshal(words)
			if string(cur) == string(last) {
				continue
			}
			last = cur
			select {
			case ch <- words:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
