package transactions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/google/uuid"
)

// AccountLookup resolves party names for listings.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

type MemoryRepository struct {
	mu       sync.RWMutex
	items    []models.Transaction
	accounts AccountLookup
}

func NewMemoryRepository(accounts AccountLookup) *MemoryRepository {
	return &MemoryRepository{accounts: accounts}
}

// Snapshot captures the current contents; the returned func restores them.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	saved := slices.Clone(r.items)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.items = saved
		r.mu.Unlock()
	}
}

func (r *MemoryRepository) Create(_ context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.items = append(r.items, *t)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	r.mu.RLock()
	var out []models.Transaction
	for _, t := range r.items {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	slices.Reverse(out)
	for i := range out {
		if err := r.resolve(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *MemoryRepository) resolve(ctx context.Context, t *models.Transaction) error {
	if t.FromAccountID != "" {
		from, err := r.accounts.GetByID(ctx, t.FromAccountID)
		if err != nil {
			return err
		}
		t.FromUsername, t.FromName = from.Username, from.Name
	}
	to, err := r.accounts.GetByID(ctx, t.ToAccountID)
	if err != nil {
		return err
	}
	t.ToUsername, t.ToName = to.Username, to.Name
	return nil
}
