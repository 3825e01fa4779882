package session

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juan() *models.SessionRecord {
	return &models.SessionRecord{
		Name:                  "Juan",
		Alias:                 "juan.123",
		Email:                 "juan@example.com",
		Balance:               1000,
		SecondFactorEnrolled:  true,
		SecondFactorConfirmed: true,
		Token:                 "session-jwt",
		BalanceRevision:       2,
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stores returns every Store implementation under test.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	key, err := DeviceKey(filepath.Join(t.TempDir(), "device.key"))
	require.NoError(t, err)

	return map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite":        NewSQLiteStore(openTestDB(t), nil),
		"sqlite-sealed": NewSQLiteStore(openTestDB(t), key),
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, juan()))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, juan(), got)

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx), "clear must be idempotent")

			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStore_SaveReplacesWholeRecord(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, juan()))

			next := juan()
			next.Token = ""
			next.SecondFactorConfirmed = false
			require.NoError(t, s.Save(ctx, next))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, next, got)
		})
	}
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, juan()))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			got.Balance = 1

			again, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1000), again.Balance)
		})
	}
}

func TestStore_UpdateEmpty(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Update(context.Background(), func(rec *models.SessionRecord) error { return nil })
			require.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestStore_UpdateFnErrorLeavesRecord(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, juan()))

			boom := errors.New("boom")
			_, err := s.Update(ctx, func(rec *models.SessionRecord) error {
				rec.Balance = 0
				return boom
			})
			require.ErrorIs(t, err, boom)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1000), got.Balance)
		})
	}
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, juan()))

			const n = 20
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Update(ctx, func(rec *models.SessionRecord) error {
						rec.Balance -= 10
						return nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1000-n*10), got.Balance)
		})
	}
}

func TestSQLiteStore_SealedRecordIsNotPlaintext(t *testing.T) {
	db := openTestDB(t)
	key, err := DeviceKey(filepath.Join(t.TempDir(), "device.key"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, NewSQLiteStore(db, key).Save(ctx, juan()))

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT value FROM session WHERE key = ?`, RecordKey).Scan(&raw))
	assert.NotContains(t, string(raw), "juan.123")

	_, err = NewSQLiteStore(db, nil).Load(ctx)
	require.Error(t, err, "sealed record must not load without a key")
}

func TestSQLiteStore_ClosedDB(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteStore(db, nil)
	require.NoError(t, db.Close())

	ctx := context.Background()
	_, err := s.Load(ctx)
	require.ErrorContains(t, err, "failed to load session[userData]")
	require.ErrorContains(t, s.Save(ctx, juan()), "failed to save session[userData]")
	require.ErrorContains(t, s.Clear(ctx), "failed to clear session[userData]")
}

func TestSQLiteStore_SaveNil(t *testing.T) {
	require.Error(t, NewSQLiteStore(openTestDB(t), nil).Save(context.Background(), nil))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestDeviceKey_CreateThenReuse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.key")

	k1, err := DeviceKey(path)
	require.NoError(t, err)
	k2, err := DeviceKey(path)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDeviceKey_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, []byte("not-hex"), 0o600))

	_, err := DeviceKey(path)
	require.ErrorContains(t, err, "malformed")
}

func TestOpenSQLite_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "wallet", "session.db")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}
