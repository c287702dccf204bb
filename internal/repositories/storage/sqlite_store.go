package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Ensure both adapters satisfy the persistence port.
var (
	_ portsrepo.KVStore = (*SQLiteStore)(nil)
	_ portsrepo.KVStore = (*MemoryStore)(nil)
)

// SQLiteStore is the durable KVStore adapter: one kv table in an embedded
// SQLite file, the local analogue of browser localStorage. All operations are
// synchronous single-row statements.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and brings the kv
// schema up to date via the embedded migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure store: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the value at key into out. A missing key and an unreadable
// stored value both report (false, nil): corruption is logged and treated as
// absence so it never propagates to callers.
func (s *SQLiteStore) Load(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		slog.Warn("discarding unreadable stored value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false, nil
	}
	return true, nil
}

// Save marshals value and upserts it at key.
func (s *SQLiteStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (k, v, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at
	`, key, string(raw), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes the value at key. Deleting an absent key is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// NewID returns a fresh prefixed identifier.
func (s *SQLiteStore) NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
