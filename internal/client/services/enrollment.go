package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// EnrollmentManager binds a second factor to an identity.
//
// Contract:
//   - Begin registers the identity. Repeating it for an unconfirmed identity
//     is allowed; only the latest material validates.
//   - Confirm proves possession with a code and drops the pending material.
//   - Regenerate replaces the secret of an existing account.
//   - Pending returns the latest unconfirmed material for an alias.
type EnrollmentManager interface {
	Begin(ctx context.Context, id models.Identity) (*models.EnrollmentMaterial, error)
	Confirm(ctx context.Context, alias, code string) error
	Regenerate(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error)
	Pending(alias string) (*models.EnrollmentMaterial, bool)
}

type enrollmentManager struct {
	client client.Client
	logger logging.Logger

	mu      sync.Mutex
	pending map[string]*models.EnrollmentMaterial
}

func NewEnrollmentManager(c client.Client, logger logging.Logger) EnrollmentManager {
	return &enrollmentManager{
		client:  c,
		logger:  logger,
		pending: make(map[string]*models.EnrollmentMaterial),
	}
}

func (m *enrollmentManager) Begin(ctx context.Context, id models.Identity) (*models.EnrollmentMaterial, error) {
	if err := ValidateIdentity(id); err != nil {
		return nil, err
	}
	material, err := m.client.Register(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	m.remember(id.Alias, material)
	m.logger.Info(ctx, "enrollment started", "alias", id.Alias)
	return material, nil
}

func (m *enrollmentManager) Confirm(ctx context.Context, alias, code string) error {
	if err := ValidateAlias(alias); err != nil {
		return err
	}
	if err := ValidateCode(code); err != nil {
		return err
	}
	if err := m.client.ConfirmEnrollment(ctx, alias, code); err != nil {
		return fmt.Errorf("confirm enrollment error: %w", err)
	}

	m.mu.Lock()
	delete(m.pending, alias)
	m.mu.Unlock()

	m.logger.Info(ctx, "enrollment confirmed", "alias", alias)
	return nil
}

func (m *enrollmentManager) Regenerate(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error) {
	if err := ValidateAlias(alias); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	material, err := m.client.RegenerateEnrollment(ctx, alias, email)
	if err != nil {
		return nil, fmt.Errorf("regenerate error: %w", err)
	}
	m.remember(alias, material)
	m.logger.Info(ctx, "enrollment regenerated", "alias", alias)
	return material, nil
}

func (m *enrollmentManager) Pending(alias string) (*models.EnrollmentMaterial, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mat, ok := m.pending[alias]
	if !ok {
		return nil, false
	}
	c := *mat
	return &c, true
}

func (m *enrollmentManager) remember(alias string, mat *models.EnrollmentMaterial) {
	c := *mat
	m.mu.Lock()
	m.pending[alias] = &c
	m.mu.Unlock()
}
