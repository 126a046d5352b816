package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Veraticus/grocer/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db          *sql.DB
	taxonomy    *model.Taxonomy
	recipeCache map[string]*model.Recipe
	dbPath      string
	cacheMutex  sync.RWMutex
}

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:          db,
		dbPath:      dbPath,
		taxonomy:    model.DefaultTaxonomy(),
		recipeCache: make(map[string]*model.Recipe),
	}, nil
}

// SetTaxonomy sets the taxonomy used for lists returned by LoadShoppingList.
func (s *SQLiteStorage) SetTaxonomy(t *model.Taxonomy) {
	if t != nil {
		s.taxonomy = t
	}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) getCachedRecipe(name string) *model.Recipe {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	if r, ok := s.recipeCache[name]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (s *SQLiteStorage) cacheRecipe(r *model.Recipe) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	cp := *r
	s.recipeCache[r.Name] = &cp
}

func (s *SQLiteStorage) clearRecipeCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.recipeCache = make(map[string]*model.Recipe)
}
