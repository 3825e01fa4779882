package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// MemoryStore keeps the record in process memory. Used by tests and by the
// CLI when no session database is configured.
type MemoryStore struct {
	mu  sync.Mutex
	rec *models.SessionRecord
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) load(context.Context) (*models.SessionRecord, error) {
	return s.rec.Clone(), nil
}

func (s *MemoryStore) save(_ context.Context, rec *models.SessionRecord) error {
	s.rec = rec.Clone()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *MemoryStore) Save(ctx context.Context, rec *models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, rec)
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(rec *models.SessionRecord) error) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return update(ctx, s, fn)
}
