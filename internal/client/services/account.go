package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// AccountService covers the read paths and profile maintenance of an
// authenticated session. None of its calls change the stored balance except
// Refresh, which adopts the ledger's figure only when no transfer updated the
// balance while the read was in flight.
type AccountService struct {
	client client.Client
	store  session.Store
	guard  SessionGuard
	logger logging.Logger
}

func NewAccountService(c client.Client, store session.Store, guard SessionGuard, logger logging.Logger) *AccountService {
	return &AccountService{client: c, store: store, guard: guard, logger: logger}
}

// authorized returns the stored record if it may be used for read calls.
func (s *AccountService) authorized(ctx context.Context) (*models.SessionRecord, error) {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session error: %w", err)
	}
	if !rec.CanTransfer() || rec.Token == "" {
		return nil, ErrNotAuthenticated
	}
	return rec, nil
}

// Refresh re-reads the account from the ledger using the stored token.
func (s *AccountService) Refresh(ctx context.Context) (*models.SessionRecord, error) {
	rec, err := s.authorized(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.client.Login(ctx, rec.Alias, rec.Token)
	if err != nil {
		return nil, s.handle(ctx, "refresh", err)
	}
	if !strings.EqualFold(user.Email, rec.Email) {
		s.guard.Invalidate(ctx, client.ErrSessionInvalid)
		return nil, fmt.Errorf("refresh error: %w", client.ErrSessionInvalid)
	}
	return s.store.Update(ctx, func(r *models.SessionRecord) error {
		r.Name = user.Name
		if r.BalanceRevision != rec.BalanceRevision {
			s.logger.Debug(ctx, "dropping stale balance", "fetched", user.Balance, "stored", r.Balance)
			return nil
		}
		r.Balance = user.Balance
		return nil
	})
}

func (s *AccountService) History(ctx context.Context) ([]models.TransferRecord, error) {
	rec, err := s.authorized(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.client.History(ctx, rec.Alias, rec.Token)
	if err != nil {
		return nil, s.handle(ctx, "history", err)
	}
	return records, nil
}

// Search is best-effort: any failure yields no results.
func (s *AccountService) Search(ctx context.Context, prefix string) []models.AccountSummary {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	found, err := s.client.SearchAccounts(ctx, prefix)
	if err != nil {
		s.logger.Debug(ctx, "search failed", "prefix", prefix, "error", err)
		return nil
	}
	return found
}

// EditProfile renames the account and/or changes its alias. The stored
// balance is kept; name, alias, email and token follow the ledger.
func (s *AccountService) EditProfile(ctx context.Context, name, newAlias string) (*models.ProfileUpdate, error) {
	rec, err := s.authorized(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	newAlias = strings.TrimSpace(newAlias)
	if name == rec.Name {
		name = ""
	}
	if newAlias == rec.Alias {
		newAlias = ""
	}
	if name == "" && newAlias == "" {
		return nil, client.Invalid("profile", "no changes")
	}
	if newAlias != "" {
		if err := ValidateAlias(newAlias); err != nil {
			return nil, err
		}
	}

	upd, err := s.client.EditProfile(ctx, rec.Alias, rec.Token, name, newAlias)
	if err != nil {
		return nil, s.handle(ctx, "edit profile", err)
	}

	_, err = s.store.Update(ctx, func(r *models.SessionRecord) error {
		r.Name = upd.User.Name
		r.Alias = upd.User.Alias
		if upd.User.Email != "" {
			r.Email = upd.User.Email
		}
		if upd.User.Token != "" {
			r.Token = upd.User.Token
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save profile error: %w", err)
	}
	s.logger.Info(ctx, "profile updated", "alias", upd.User.Alias, "changes", upd.Changes)
	return upd, nil
}

// ChangeEmail replaces the account email. On success the session ends and
// the user has to log in again with the new address.
func (s *AccountService) ChangeEmail(ctx context.Context, newEmail, code string) error {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session error: %w", err)
	}
	if !rec.CanTransfer() {
		return ErrNotAuthenticated
	}
	newEmail = strings.TrimSpace(newEmail)
	if err := ValidateEmail(newEmail); err != nil {
		return err
	}
	if strings.EqualFold(newEmail, rec.Email) {
		return client.Invalid("email", "is unchanged")
	}
	if err := ValidateCode(code); err != nil {
		return err
	}

	if err := s.client.ChangeEmail(ctx, rec.Alias, code, newEmail); err != nil {
		return s.handle(ctx, "change email", err)
	}
	s.logger.Info(ctx, "email changed", "alias", rec.Alias)
	return s.guard.Logout(ctx)
}

func (s *AccountService) handle(ctx context.Context, op string, err error) error {
	if errors.Is(err, client.ErrSessionInvalid) {
		s.guard.Invalidate(ctx, err)
	}
	return fmt.Errorf("%s error: %w", op, err)
}

// FilterHistory returns the records of type t. An empty t keeps everything.
// The input is not modified.
func FilterHistory(records []models.TransferRecord, t models.TransferType) []models.TransferRecord {
	out := make([]models.TransferRecord, 0, len(records))
	for _, r := range records {
		if t == "" || r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// SortHistory returns a copy ordered by creation time.
func SortHistory(records []models.TransferRecord, newestFirst bool) []models.TransferRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b models.TransferRecord) int {
		if newestFirst {
			return cmp.Compare(b.CreatedAt, a.CreatedAt)
		}
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})
	return out
}
