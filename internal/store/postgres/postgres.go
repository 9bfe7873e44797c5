// Package postgres implements the store.Store interface backed by
// PostgreSQL. Every collection lives in one documents table with a JSONB
// body column.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/bazaarlabs/bazaar/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DocumentStore implements store.Store backed by a PostgreSQL database.
type DocumentStore struct {
	db *sql.DB
}

// Compile-time check that DocumentStore implements store.Store.
var _ store.Store = (*DocumentStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*DocumentStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DocumentStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// Collection returns a handle for one named collection.
func (s *DocumentStore) Collection(name string) store.Collection {
	return &collection{db: s.db, name: name}
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *DocumentStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) Collection(name string) store.Collection {
	return &collection{db: s.tx, name: name}
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}

// collection dispatches CRUD and queries for one collection over either a
// *sql.DB or a *sql.Tx.
type collection struct {
	db   executor
	name string
}

var _ store.Collection = (*collection)(nil)

func (c *collection) Get(ctx context.Context, id string) (*store.Document, error) {
	return queryGetDocument(ctx, c.db, c.name, id)
}

func (c *collection) Create(ctx context.Context, doc *store.Document) error {
	return queryCreateDocument(ctx, c.db, c.name, doc)
}

func (c *collection) Update(ctx context.Context, id string, patch map[string]any) error {
	return queryUpdateDocument(ctx, c.db, c.name, id, patch)
}

func (c *collection) Delete(ctx context.Context, id string) error {
	return queryDeleteDocument(ctx, c.db, c.name, id)
}

func (c *collection) Find(ctx context.Context, q store.Query) ([]*store.Document, int, error) {
	return queryFindDocuments(ctx, c.db, c.name, q)
}
