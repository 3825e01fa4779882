package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/migrations"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/cryptox"
	"github.com/dmitrijs2005/gophwallet/internal/dbx"
	"github.com/dmitrijs2005/gophwallet/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the record in the client's SQLite database. When a key is
// configured the record is sealed with AES-GCM before it is written.
type SQLiteStore struct {
	mu  sync.Mutex
	db  dbx.DBTX
	key []byte
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore binds a store to db. A nil key stores plain JSON.
func NewSQLiteStore(db dbx.DBTX, key []byte) *SQLiteStore {
	return &SQLiteStore{db: db, key: key}
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn, 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single writer keeps SQLite from returning SQLITE_BUSY under Update.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) load(ctx context.Context) (*models.SessionRecord, error) {
	var (
		value  []byte
		sealed bool
	)
	err := s.db.QueryRowContext(ctx, `SELECT value, sealed FROM session WHERE key = ?`, RecordKey).Scan(&value, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session[%s]: %w", RecordKey, err)
	}

	rec := &models.SessionRecord{}
	if sealed {
		if s.key == nil {
			return nil, fmt.Errorf("failed to load session[%s]: record is sealed and no key is configured", RecordKey)
		}
		err = cryptox.Open(value, s.key, rec)
	} else {
		err = json.Unmarshal(value, rec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode session[%s]: %w", RecordKey, err)
	}
	return rec, nil
}

func (s *SQLiteStore) save(ctx context.Context, rec *models.SessionRecord) error {
	if rec == nil {
		return errors.New("save session: nil record")
	}

	var (
		value []byte
		err   error
	)
	sealed := s.key != nil
	if sealed {
		value, err = cryptox.Seal(rec, s.key)
	} else {
		value, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("failed to encode session[%s]: %w", RecordKey, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (key, value, sealed, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, sealed = excluded.sealed, updated_at = excluded.updated_at
	`, RecordKey, value, sealed)
	if err != nil {
		return fmt.Errorf("failed to save session[%s]: %w", RecordKey, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SQLiteStore) Save(ctx context.Context, rec *models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, rec)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, RecordKey); err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", RecordKey, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(rec *models.SessionRecord) error) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(ctx, s, fn)
}
