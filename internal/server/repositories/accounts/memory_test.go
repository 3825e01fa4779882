package accounts

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *MemoryRepository, usernames ...string) []*models.Account {
	t.Helper()
	var out []*models.Account
	for _, u := range usernames {
		a, err := r.Create(context.Background(), &models.Account{Name: u, Username: u, Email: u + "@example.com"})
		require.NoError(t, err)
		out = append(out, a)
	}
	return out
}

func TestMemory_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a := seed(t, r, "juan.123")[0]

	require.NotEmpty(t, a.ID)
	require.False(t, a.CreatedAt.IsZero())

	byName, err := r.GetByUsername(ctx, "juan.123")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)

	byID, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "juan.123", byID.Username)

	_, err = r.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.Create(ctx, &models.Account{Username: "juan.123"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a := seed(t, r, "juan.123")[0]

	got, _ := r.GetByID(ctx, a.ID)
	got.Balance = 1_000_000

	again, _ := r.GetByID(ctx, a.ID)
	assert.Zero(t, again.Balance)
}

func TestMemory_SecretLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a := seed(t, r, "juan.123")[0]

	require.NoError(t, r.ConfirmSecret(ctx, a.ID))
	got, _ := r.GetByID(ctx, a.ID)
	assert.True(t, got.TotpConfirmed)

	require.NoError(t, r.ReplaceSecret(ctx, a.ID, "NEW"))
	got, _ = r.GetByID(ctx, a.ID)
	assert.Equal(t, "NEW", got.TotpSecret)
	assert.False(t, got.TotpConfirmed)

	require.ErrorIs(t, r.ConfirmSecret(ctx, "missing"), common.ErrorNotFound)
}

func TestMemory_AddBalance(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a := seed(t, r, "juan.123")[0]

	b, err := r.AddBalance(ctx, a.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b)

	b, err = r.AddBalance(ctx, a.ID, -200)
	require.NoError(t, err)
	assert.Equal(t, int64(800), b)
}

func TestMemory_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	accs := seed(t, r, "juan.123", "ana.55")

	require.ErrorIs(t, r.UpdateProfile(ctx, accs[0].ID, "Juan", "ana.55"), common.ErrorAlreadyExists)
	require.NoError(t, r.UpdateProfile(ctx, accs[0].ID, "Juan P", "juanp"))

	got, err := r.GetByUsername(ctx, "juanp")
	require.NoError(t, err)
	assert.Equal(t, "Juan P", got.Name)

	require.NoError(t, r.UpdateEmail(ctx, accs[0].ID, "jp@example.com"))
	got, _ = r.GetByID(ctx, accs[0].ID)
	assert.Equal(t, "jp@example.com", got.Email)
}

func TestMemory_SearchByPrefix(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "juan.123", "juana", "ana.55", "julio")

	got, err := r.SearchByPrefix(context.Background(), "ju", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "juan.123", got[0].Username)
	assert.Equal(t, "juana", got[1].Username)
}

func TestMemory_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a := seed(t, r, "juan.123")[0]

	restore := r.Snapshot()
	_, _ = r.AddBalance(ctx, a.ID, 500)
	seed(t, r, "ana.55")
	restore()

	got, _ := r.GetByID(ctx, a.ID)
	assert.Zero(t, got.Balance)
	_, err := r.GetByUsername(ctx, "ana.55")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
