package embedding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	// Drivers selectable through embeddings.driver.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL UNIQUE,
	embedding BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
	id BIGSERIAL PRIMARY KEY,
	text TEXT NOT NULL UNIQUE,
	embedding BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store persists embeddings keyed by their normalized text. Queries are
// written with ? placeholders and rebound for the driver.
type Store struct {
	db     *sqlx.DB
	driver string
}

type storedVector struct {
	Text      string `db:"text"`
	Embedding []byte `db:"embedding"`
}

// OpenStore connects with driver ("sqlite3" or "postgres") and creates the
// table when missing.
func OpenStore(ctx context.Context, driver, dsn string) (*Store, error) {
	var schema string
	switch driver {
	case "sqlite3":
		schema = sqliteSchema
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case "postgres":
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported embeddings driver: %s", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to embeddings database: %w", err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create embeddings table: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Get returns the stored vector for text.
func (s *Store) Get(ctx context.Context, text string) ([]float32, bool, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, s.db.Rebind(`SELECT embedding FROM embeddings WHERE text = ?`), text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get embedding for %q: %w", text, err)
	}

	v, err := DecodeVector(data)
	if err != nil {
		return nil, false, fmt.Errorf("embedding for %q: %w", text, err)
	}
	return v, true, nil
}

// Put inserts or replaces the vector for text.
func (s *Store) Put(ctx context.Context, text string, v []float32) error {
	data, err := EncodeVector(v)
	if err != nil {
		return err
	}

	query := s.db.Rebind(`
		INSERT INTO embeddings (text, embedding) VALUES (?, ?)
		ON CONFLICT (text) DO UPDATE SET embedding = excluded.embedding, updated_at = CURRENT_TIMESTAMP`)
	if _, err := s.db.ExecContext(ctx, query, text, data); err != nil {
		return fmt.Errorf("failed to store embedding for %q: %w", text, err)
	}
	return nil
}

// BulkGet returns the stored vectors among texts. Missing texts are absent
// from the map.
func (s *Store) BulkGet(ctx context.Context, texts []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT text, embedding FROM embeddings WHERE text IN (?)`, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk query: %w", err)
	}

	var rows []storedVector
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to bulk get embeddings: %w", err)
	}

	for _, row := range rows {
		v, err := DecodeVector(row.Embedding)
		if err != nil {
			return nil, fmt.Errorf("embedding for %q: %w", row.Text, err)
		}
		out[row.Text] = v
	}
	return out, nil
}

// Delete removes texts and reports how many rows went away.
func (s *Store) Delete(ctx context.Context, texts ...string) (int64, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM embeddings WHERE text IN (?)`, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete embeddings: %w", err)
	}
	return res.RowsAffected()
}

// Texts lists stored texts alphabetically.
func (s *Store) Texts(ctx context.Context) ([]string, error) {
	texts := []string{}
	if err := s.db.SelectContext(ctx, &texts, `SELECT text FROM embeddings ORDER BY text`); err != nil {
		return nil, fmt.Errorf("failed to list embeddings: %w", err)
	}
	return texts, nil
}

// Clear deletes every embedding.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM embeddings`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
