package accounts

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It backs the service
// when no database DSN is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.Account)}
}

// Snapshot captures the current contents; the returned func restores them.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.RLock()
	saved := maps.Clone(r.byID)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.byID = saved
		r.mu.Unlock()
	}
}

func (r *MemoryRepository) findUsername(username string) (models.Account, bool) {
	for _, a := range r.byID {
		if a.Username == username {
			return a, true
		}
	}
	return models.Account{}, false
}

func (r *MemoryRepository) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findUsername(a.Username); taken {
		return nil, common.ErrorAlreadyExists
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	r.byID[a.ID] = *a
	return a, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.findUsername(username)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

// GetByUsernameForUpdate is GetByUsername; callers serialize through the
// manager's transaction lock.
func (r *MemoryRepository) GetByUsernameForUpdate(ctx context.Context, username string) (*models.Account, error) {
	return r.GetByUsername(ctx, username)
}

func (r *MemoryRepository) update(id string, fn func(a *models.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if err := fn(&a); err != nil {
		return err
	}
	r.byID[id] = a
	return nil
}

func (r *MemoryRepository) ReplaceSecret(_ context.Context, id, secret string) error {
	return r.update(id, func(a *models.Account) error {
		a.TotpSecret = secret
		a.TotpConfirmed = false
		return nil
	})
}

func (r *MemoryRepository) ConfirmSecret(_ context.Context, id string) error {
	return r.update(id, func(a *models.Account) error {
		a.TotpConfirmed = true
		return nil
	})
}

func (r *MemoryRepository) AddBalance(_ context.Context, id string, delta int64) (int64, error) {
	var balance int64
	err := r.update(id, func(a *models.Account) error {
		a.Balance += delta
		balance = a.Balance
		return nil
	})
	return balance, err
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, id, name, username string) error {
	return r.update(id, func(a *models.Account) error {
		if other, taken := r.findUsername(username); taken && other.ID != id {
			return common.ErrorAlreadyExists
		}
		a.Name = name
		a.Username = username
		return nil
	})
}

func (r *MemoryRepository) UpdateEmail(_ context.Context, id, email string) error {
	return r.update(id, func(a *models.Account) error {
		a.Email = email
		return nil
	})
}

func (r *MemoryRepository) SearchByPrefix(_ context.Context, prefix string, limit int) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Account
	for _, a := range r.byID {
		if strings.HasPrefix(a.Username, prefix) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(x, y models.Account) int { return strings.Compare(x.Username, y.Username) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
