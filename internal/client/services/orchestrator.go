package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// transitions lists, for every state, the states it may move to.
// Anything else is rejected with ErrIllegalTransition.
var transitions = map[models.State][]models.State{
	models.StateAnonymous: {
		models.StateAnonymous,
		models.StateAwaitingEnrollment,
		models.StateAwaitingConfirmation,
		models.StateAuthenticated,
		models.StateSessionInvalid,
	},
	models.StateAwaitingEnrollment: {
		models.StateAnonymous,
		models.StateAwaitingEnrollment,
		models.StateAwaitingConfirmation,
		models.StateSessionInvalid,
	},
	models.StateAwaitingConfirmation: {
		models.StateAnonymous,
		models.StateAwaitingEnrollment,
		models.StateAwaitingConfirmation,
		models.StateAuthenticated,
		models.StateSessionInvalid,
	},
	models.StateAuthenticated: {
		models.StateAnonymous,
		models.StateAwaitingConfirmation,
		models.StateSessionInvalid,
	},
	models.StateSessionInvalid: {
		models.StateAnonymous,
		models.StateAwaitingEnrollment,
		models.StateAwaitingConfirmation,
		models.StateAuthenticated,
		models.StateSessionInvalid,
	},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to models.State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SessionGuard is what other services need from the orchestrator: a way to
// drop the session after the ledger rejected it, and an explicit logout.
type SessionGuard interface {
	Invalidate(ctx context.Context, cause error)
	Logout(ctx context.Context) error
}

// Orchestrator owns the session state machine. It is the only writer of
// session state apart from balance and profile updates.
type Orchestrator struct {
	client     client.Client
	store      session.Store
	enrollment EnrollmentManager
	logger     logging.Logger

	mu    sync.Mutex
	state models.State
	// identity asserted during registration or login that is not yet
	// confirmed; there is no stored record for it.
	pending *models.Identity
}

func NewOrchestrator(c client.Client, store session.Store, enrollment EnrollmentManager, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		client:     c,
		store:      store,
		enrollment: enrollment,
		logger:     logger,
		state:      models.StateAnonymous,
	}
}

func (o *Orchestrator) State() models.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session returns the stored record, or nil when there is none.
func (o *Orchestrator) Session(ctx context.Context) (*models.SessionRecord, error) {
	return o.store.Load(ctx)
}

// PendingAlias returns the alias awaiting enrollment or confirmation.
func (o *Orchestrator) PendingAlias() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending != nil {
		return o.pending.Alias
	}
	return ""
}

// Restore derives the state from the stored record. It never yields
// Authenticated for a record without a confirmed second factor.
func (o *Orchestrator) Restore(ctx context.Context) (models.State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, err := o.store.Load(ctx)
	if err != nil {
		o.state = models.StateSessionInvalid
		return o.state, fmt.Errorf("restore session error: %w", err)
	}
	o.pending = nil
	o.state = derive(rec)
	o.logger.Debug(ctx, "session restored", "state", o.state.String())
	return o.state, nil
}

func derive(rec *models.SessionRecord) models.State {
	switch {
	case rec == nil:
		return models.StateAnonymous
	case !rec.SecondFactorEnrolled:
		return models.StateAwaitingEnrollment
	case !rec.SecondFactorConfirmed || rec.Token == "":
		return models.StateAwaitingConfirmation
	default:
		return models.StateAuthenticated
	}
}

// Register starts enrollment for a new identity.
func (o *Orchestrator) Register(ctx context.Context, id models.Identity) (*models.EnrollmentMaterial, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.check(models.StateAwaitingEnrollment); err != nil {
		return nil, err
	}
	material, err := o.enrollment.Begin(ctx, id)
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.pending = &models.Identity{Name: id.Name, Alias: id.Alias, Email: id.Email}
	o.state = models.StateAwaitingEnrollment
	return material, nil
}

// Regenerate issues new enrollment material for an existing account whose
// authenticator was lost.
func (o *Orchestrator) Regenerate(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.check(models.StateAwaitingEnrollment); err != nil {
		return nil, err
	}
	material, err := o.enrollment.Regenerate(ctx, alias, email)
	if err != nil {
		return nil, o.fail(ctx, err)
	}
	o.pending = &models.Identity{Alias: alias, Email: email}
	o.state = models.StateAwaitingEnrollment
	return material, nil
}

// EnrollmentShown records that the user has seen the material and is ready
// to type a code.
func (o *Orchestrator) EnrollmentShown() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != models.StateAwaitingEnrollment {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.state, models.StateAwaitingConfirmation)
	}
	o.state = models.StateAwaitingConfirmation
	return nil
}

// Login asserts an existing identity with a current code. An unconfirmed
// account moves the machine to AwaitingConfirmation instead of failing.
func (o *Orchestrator) Login(ctx context.Context, email, alias, code string) (models.State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.check(models.StateAuthenticated); err != nil {
		return o.state, err
	}
	if err := ValidateEmail(email); err != nil {
		return o.state, err
	}
	if err := ValidateAlias(alias); err != nil {
		return o.state, err
	}
	if err := ValidateCode(code); err != nil {
		return o.state, err
	}

	user, err := o.client.Login(ctx, alias, code)
	if errors.Is(err, client.ErrVerificationRequired) {
		o.pending = &models.Identity{Alias: alias, Email: email}
		o.state = models.StateAwaitingConfirmation
		return o.state, nil
	}
	if err != nil {
		return o.state, o.fail(ctx, err)
	}
	if !strings.EqualFold(user.Email, email) {
		o.logger.Warn(ctx, "login email does not match account", "alias", alias)
		return o.state, fmt.Errorf("login error: %w", client.ErrUnknownAlias)
	}
	if err := o.persist(ctx, user); err != nil {
		return o.state, err
	}
	return o.state, nil
}

// Confirm proves possession of the enrolled second factor and completes the
// session. A stored record that only lost its token is re-authorized.
func (o *Orchestrator) Confirm(ctx context.Context, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != models.StateAwaitingConfirmation {
		return fmt.Errorf("%w: confirm from %s", ErrIllegalTransition, o.state)
	}
	if err := ValidateCode(code); err != nil {
		return err
	}

	alias, email, needsEnrollment, err := o.confirmTarget(ctx)
	if err != nil {
		return err
	}
	if needsEnrollment {
		if err := o.enrollment.Confirm(ctx, alias, code); err != nil {
			return o.fail(ctx, err)
		}
	}

	user, err := o.client.Login(ctx, alias, code)
	if err != nil {
		return o.fail(ctx, err)
	}
	if email != "" && !strings.EqualFold(user.Email, email) {
		return fmt.Errorf("confirm error: %w", client.ErrUnknownAlias)
	}
	return o.persist(ctx, user)
}

func (o *Orchestrator) confirmTarget(ctx context.Context) (alias, email string, needsEnrollment bool, err error) {
	if o.pending != nil {
		return o.pending.Alias, o.pending.Email, true, nil
	}
	rec, err := o.store.Load(ctx)
	if err != nil {
		return "", "", false, fmt.Errorf("confirm error: %w", err)
	}
	if rec == nil {
		return "", "", false, fmt.Errorf("confirm error: %w", ErrNotAuthenticated)
	}
	return rec.Alias, rec.Email, !rec.SecondFactorConfirmed, nil
}

// Logout destroys the stored record. It is allowed from every state.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	o.pending = nil
	o.state = models.StateAnonymous
	o.logger.Info(ctx, "logged out")
	return nil
}

// DiscardToken drops the stored read token and re-derives the state, so the
// user is asked for a fresh code.
func (o *Orchestrator) DiscardToken(ctx context.Context) (models.State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != models.StateAuthenticated {
		return o.state, fmt.Errorf("%w: discard token from %s", ErrIllegalTransition, o.state)
	}
	if err := o.check(models.StateAwaitingConfirmation); err != nil {
		return o.state, err
	}
	rec, err := o.store.Update(ctx, func(rec *models.SessionRecord) error {
		rec.Token = ""
		return nil
	})
	if err != nil {
		return o.state, fmt.Errorf("discard token error: %w", err)
	}
	o.state = derive(rec)
	return o.state, nil
}

// Invalidate handles a failure reported by the ledger. Authorization
// failures destroy the record; anything else is left to the caller.
func (o *Orchestrator) Invalidate(ctx context.Context, cause error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidate(ctx, cause)
}

func (o *Orchestrator) invalidate(ctx context.Context, cause error) {
	if !errors.Is(cause, client.ErrSessionInvalid) {
		return
	}
	if err := o.store.Clear(ctx); err != nil {
		o.logger.Error(ctx, "failed to clear rejected session", "error", err)
	}
	o.pending = nil
	o.state = models.StateSessionInvalid
	o.logger.Warn(ctx, "session rejected by ledger", "error", cause)
}

// fail classifies an error from a state-deriving call. Authorization
// failures destroy the record, transport failures keep it but leave the
// machine in SessionInvalid.
func (o *Orchestrator) fail(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, client.ErrSessionInvalid):
		o.invalidate(ctx, err)
	case errors.Is(err, client.ErrUnavailable):
		o.state = models.StateSessionInvalid
	}
	return err
}

func (o *Orchestrator) check(to models.State) error {
	if !CanTransition(o.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.state, to)
	}
	return nil
}

func (o *Orchestrator) persist(ctx context.Context, user *models.UserDetails) error {
	rec := &models.SessionRecord{
		Name:                  user.Name,
		Alias:                 user.Alias,
		Email:                 user.Email,
		Balance:               user.Balance,
		SecondFactorEnrolled:  true,
		SecondFactorConfirmed: true,
		Token:                 user.Token,
	}
	if err := o.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session error: %w", err)
	}
	o.pending = nil
	o.state = models.StateAuthenticated
	o.logger.Info(ctx, "session authenticated", "alias", user.Alias)
	return nil
}
