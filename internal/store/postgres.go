package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/lexigo/lexigo/internal/model"
)

// pgxPool is the pool surface the store needs; pgxpool.Pool and the pgxmock
// pool both satisfy it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on PostgreSQL via pgxpool, for
// installations that share one word database across devices without the
// hosted document store.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS categories (
	user_id    TEXT NOT NULL,
	slug       TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
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
	pronunciation          JSONB NOT NULL DEFAULT '{}',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_words_user_category
	ON words (user_id, category, created_at DESC);
`

// Migrate creates the schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveWord inserts a word and returns its generated ID.
func (s *PostgresStore) SaveWord(ctx context.Context, userID string, w model.SavedWord) (string, error) {
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	pron, err := json.Marshal(w.Pronunciation)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal pronunciation")
	}
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO words (id, user_id, category, word, translation, part_of_speech,
			definition, definition_translation, example, pronunciation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, userID, w.Category, w.Word, w.Translation, w.PartOfSpeech,
		w.Definition, w.DefinitionTranslation, w.Example, pron, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: save word")
	}
	return id, nil
}

// GetWord returns a single word by ID.
func (s *PostgresStore) GetWord(ctx context.Context, userID, category, wordID string) (model.SavedWord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, word, translation, part_of_speech, definition,
			definition_translation, example, pronunciation, created_at
		FROM words
		WHERE user_id = $1 AND category = $2 AND id = $3`,
		userID, category, wordID,
	)

	var w model.SavedWord
	var pron []byte
	err := row.Scan(&w.ID, &w.Word, &w.Translation, &w.PartOfSpeech, &w.Definition,
		&w.DefinitionTranslation, &w.Example, &pron, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SavedWord{}, eris.Wrapf(ErrNotFound, "word %s", wordID)
	}
	if err != nil {
		return model.SavedWord{}, eris.Wrap(err, "postgres: get word")
	}
	if err := json.Unmarshal(pron, &w.Pronunciation); err != nil {
		return model.SavedWord{}, eris.Wrap(err, "postgres: unmarshal pronunciation")
	}
	w.Category = category
	return w, nil
}

// ListWords returns the words of a category, newest first.
func (s *PostgresStore) ListWords(ctx context.Context, userID, category string) ([]model.SavedWord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, word, translation, part_of_speech, definition,
			definition_translation, example, pronunciation, created_at
		FROM words
		WHERE user_id = $1 AND category = $2
		ORDER BY created_at DESC, id`,
		userID, category,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list words")
	}
	defer rows.Close()

	var words []model.SavedWord
	for rows.Next() {
		var w model.SavedWord
		var pron []byte
		if err := rows.Scan(&w.ID, &w.Word, &w.Translation, &w.PartOfSpeech, &w.Definition,
			&w.DefinitionTranslation, &w.Example, &pron, &w.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan word")
		}
		if err := json.Unmarshal(pron, &w.Pronunciation); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal pronunciation")
		}
		w.Category = category
		words = append(words, w)
	}
	return words, rows.Err()
}

// DeleteWord removes one word.
func (s *PostgresStore) DeleteWord(ctx context.Context, userID, category, wordID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM words WHERE user_id = $1 AND category = $2 AND id = $3`,
		userID, category, wordID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: delete word")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "word %s", wordID)
	}
	return nil
}

// ClearCategory removes every word of a category.
func (s *PostgresStore) ClearCategory(ctx context.Context, userID, category string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM words WHERE user_id = $1 AND category = $2`,
		userID, category,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: clear category")
	}
	return int(tag.RowsAffected()), nil
}

// CreateCategory registers a category. Re-creating an existing slug is a
// no-op.
func (s *PostgresStore) CreateCategory(ctx context.Context, userID string, c model.Category) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO categories (user_id, slug, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, slug) DO NOTHING`,
		userID, c.Slug, c.Name, createdAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: create category")
	}
	return nil
}

// ListCategories returns the user's categories with word counts.
func (s *PostgresStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.slug, c.name, c.created_at, COUNT(w.id)
		FROM categories c
		LEFT JOIN words w ON w.user_id = c.user_id AND w.category = c.slug
		WHERE c.user_id = $1
		GROUP BY c.slug, c.name, c.created_at
		ORDER BY c.created_at`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list categories")
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Slug, &c.Name, &c.CreatedAt, &c.WordCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan category")
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// DeleteCategory removes a category and its words.
func (s *PostgresStore) DeleteCategory(ctx context.Context, userID, slug string) error {
	if _, err := s.ClearCategory(ctx, userID, slug); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM categories WHERE user_id = $1 AND slug = $2`,
		userID, slug,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: delete category")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "category %s", slug)
	}
	return nil
}

// Watch polls the category and emits the word list whenever it changes.
func (s *PostgresStore) Watch(ctx context.Context, userID, category string) (<-chan []model.SavedWord, error) {
	return pollWatch(ctx, func(ctx context.Context) ([]model.SavedWord, error) {
		return s.ListWords(ctx, userID, category)
	})
}
