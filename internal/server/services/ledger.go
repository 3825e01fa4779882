// Package services contains the ledger's business rules: enrollment of TOTP
// second factors, credential checks, the two-phase transfer protocol and
// account maintenance. Transports translate its sentinel errors to wire codes.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/dmitrijs2005/gophwallet/internal/server/receipts"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophwallet/internal/server/tokenstore"
)

const (
	searchLimit = 10
	awardedBy   = "GophWallet"
	signupNote  = "Welcome bonus"
)

// CodeProvider creates and checks TOTP material. *auth.TOTP implements it.
type CodeProvider interface {
	Generate(username string) (*auth.Enrollment, error)
	Validate(secret, code string) bool
}

// Deps are the collaborators of a Ledger. Nil UsedTokens, Limiter and
// Archive fall back to in-memory, unlimited and no-op implementations.
type Deps struct {
	Repos       repomanager.RepositoryManager
	Issuer      *auth.Issuer
	Codes       CodeProvider
	UsedTokens  tokenstore.UsedTokens
	Limiter     tokenstore.AttemptLimiter
	Archive     receipts.Archive
	SignupAward int64
	Logger      logging.Logger
}

type Ledger struct {
	repos       repomanager.RepositoryManager
	issuer      *auth.Issuer
	codes       CodeProvider
	used        tokenstore.UsedTokens
	limiter     tokenstore.AttemptLimiter
	archive     receipts.Archive
	signupAward int64
	logger      logging.Logger
}

func NewLedger(d Deps) *Ledger {
	l := &Ledger{
		repos:       d.Repos,
		issuer:      d.Issuer,
		codes:       d.Codes,
		used:        d.UsedTokens,
		limiter:     d.Limiter,
		archive:     d.Archive,
		signupAward: d.SignupAward,
		logger:      d.Logger,
	}
	if l.used == nil {
		l.used = tokenstore.NewMemoryUsedTokens()
	}
	if l.limiter == nil {
		l.limiter = tokenstore.Unlimited()
	}
	if l.archive == nil {
		l.archive = receipts.Nop()
	}
	if l.logger == nil {
		l.logger = logging.Discard()
	}
	l.logger = l.logger.With("module", "ledger")
	return l
}

// TransferInput is one funds movement as requested by a client.
type TransferInput struct {
	From           string
	To             string
	Amount         int64
	Description    string
	OperationToken string
}

// TransferResult carries the settled transaction and both new balances.
type TransferResult struct {
	Transaction models.Transaction
	FromBalance int64
	ToBalance   int64
}

// ProfileResult is returned by EditProfile.
type ProfileResult struct {
	Account *models.Account
	Changes []string
	Token   string
}

func (l *Ledger) account(ctx context.Context, username string) (*models.Account, error) {
	a, err := l.repos.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}

// checkCode counts an attempt against the alias and validates code.
func (l *Ledger) checkCode(ctx context.Context, a *models.Account, code string) error {
	if !l.limiter.Allow(ctx, a.Username) {
		return ErrTooManyAttempts
	}
	if !isCode(code) || !l.codes.Validate(a.TotpSecret, code) {
		return ErrInvalidTOTP
	}
	return nil
}

func (l *Ledger) checkSession(a *models.Account, token string) error {
	claims, err := l.issuer.Parse(token, auth.TypeSession)
	if err != nil || claims.Subject != a.ID {
		return ErrUnauthorized
	}
	return nil
}

// Register creates an account with fresh, unconfirmed TOTP material and the
// signup award. Registering an unconfirmed alias again with the same email
// rotates its material; only the latest one validates.
func (l *Ledger) Register(ctx context.Context, name, username, email string) (*auth.Enrollment, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	existing, err := l.repos.Accounts().GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.TotpConfirmed || !strings.EqualFold(existing.Email, email) {
			return nil, ErrAliasTaken
		}
		return l.rotate(ctx, existing)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("load account: %w", err)
	}

	enrollment, err := l.codes.Generate(username)
	if err != nil {
		return nil, err
	}

	err = l.repos.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		a, err := r.Accounts.Create(ctx, &models.Account{
			Name:       name,
			Username:   username,
			Email:      email,
			Balance:    l.signupAward,
			TotpSecret: enrollment.Secret,
		})
		if err != nil {
			return err
		}
		if l.signupAward <= 0 {
			return nil
		}
		return r.Transactions.Create(ctx, &models.Transaction{
			Kind:        models.KindAward,
			ToAccountID: a.ID,
			Amount:      l.signupAward,
			Description: signupNote,
			AwardedBy:   awardedBy,
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrAliasTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	l.logger.Info(ctx, "account registered", "username", username)
	return enrollment, nil
}

func (l *Ledger) rotate(ctx context.Context, a *models.Account) (*auth.Enrollment, error) {
	enrollment, err := l.codes.Generate(a.Username)
	if err != nil {
		return nil, err
	}
	if err := l.repos.Accounts().ReplaceSecret(ctx, a.ID, enrollment.Secret); err != nil {
		return nil, fmt.Errorf("replace secret: %w", err)
	}
	l.logger.Info(ctx, "totp material rotated", "username", a.Username)
	return enrollment, nil
}

// ConfirmEnrollment marks the account's TOTP material as confirmed once a
// valid code proves the authenticator app holds it. Repeat calls succeed.
func (l *Ledger) ConfirmEnrollment(ctx context.Context, username, code string) error {
	a, err := l.account(ctx, username)
	if err != nil {
		return err
	}
	if err := l.checkCode(ctx, a, code); err != nil {
		return err
	}
	if a.TotpConfirmed {
		return nil
	}
	if err := l.repos.Accounts().ConfirmSecret(ctx, a.ID); err != nil {
		return fmt.Errorf("confirm secret: %w", err)
	}
	return nil
}

// RegenerateEnrollment replaces the TOTP material of an account whose alias
// and email both match, resetting its confirmation.
func (l *Ledger) RegenerateEnrollment(ctx context.Context, username, email string) (*auth.Enrollment, error) {
	a, err := l.account(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(a.Email, strings.TrimSpace(email)) {
		return nil, ErrUserNotFound
	}
	return l.rotate(ctx, a)
}

// UserDetails authenticates with a TOTP code or a session token and returns
// the account together with a fresh session token.
func (l *Ledger) UserDetails(ctx context.Context, username, credential string) (*models.Account, string, error) {
	a, err := l.account(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if !a.TotpConfirmed {
		return nil, "", ErrVerificationRequired
	}

	if isCode(credential) {
		err = l.checkCode(ctx, a, credential)
	} else {
		err = l.checkSession(a, credential)
	}
	if err != nil {
		return nil, "", err
	}

	session, err := l.issuer.IssueSession(a.ID)
	if err != nil {
		return nil, "", err
	}
	return a, session.Token, nil
}

// VerifyTOTP exchanges a valid code for a single-use operation token.
func (l *Ledger) VerifyTOTP(ctx context.Context, username, code string) (*auth.Issued, error) {
	a, err := l.account(ctx, username)
	if err != nil {
		return nil, err
	}
	if !a.TotpConfirmed {
		return nil, ErrVerificationRequired
	}
	if err := l.checkCode(ctx, a, code); err != nil {
		return nil, err
	}
	return l.issuer.IssueOperation(a.ID)
}

func validateTransfer(in TransferInput) error {
	switch {
	case in.From == "":
		return invalid("fromUsername", "is required")
	case in.To == "":
		return invalid("toUsername", "is required")
	case in.Amount <= 0:
		return invalid("amount", "must be positive")
	case in.Description == "":
		return invalid("description", "is required")
	case len(in.Description) > maxDescriptionLength:
		return invalid("description", "is too long")
	case in.From == in.To:
		return invalid("toUsername", "cannot transfer to yourself")
	}
	return nil
}

// Transfer moves funds after spending the operation token. The token is
// spent before balances are checked, so a failed transfer still needs a new
// one. Both balance updates and the transaction row commit together.
func (l *Ledger) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateTransfer(in); err != nil {
		return nil, err
	}

	claims, err := l.issuer.Parse(in.OperationToken, auth.TypeOperation)
	if err != nil {
		return nil, ErrInvalidOperationToken
	}
	sender, err := l.account(ctx, in.From)
	if err != nil {
		return nil, err
	}
	if claims.Subject != sender.ID {
		return nil, ErrInvalidOperationToken
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	first, err := l.used.Consume(ctx, claims.ID, max(ttl, time.Second))
	if err != nil {
		return nil, fmt.Errorf("spend operation token: %w", err)
	}
	if !first {
		return nil, ErrInvalidOperationToken
	}

	var res TransferResult
	err = l.repos.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		from, to, err := lockPair(ctx, r, in.From, in.To)
		if err != nil {
			return err
		}
		if from.Balance < in.Amount {
			return ErrInsufficientFunds
		}

		if res.FromBalance, err = r.Accounts.AddBalance(ctx, from.ID, -in.Amount); err != nil {
			return err
		}
		if res.ToBalance, err = r.Accounts.AddBalance(ctx, to.ID, in.Amount); err != nil {
			return err
		}

		res.Transaction = models.Transaction{
			Kind:          models.KindTransfer,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        in.Amount,
			Description:   in.Description,
			FromUsername:  from.Username,
			FromName:      from.Name,
			ToUsername:    to.Username,
			ToName:        to.Name,
		}
		return r.Transactions.Create(ctx, &res.Transaction)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrRecipientNotFound) || errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("transfer: %w", err)
	}

	l.logger.Info(ctx, "transfer settled",
		"id", res.Transaction.ID, "from", in.From, "to", in.To, "amount", in.Amount)
	l.storeReceipt(ctx, res.Transaction)
	return &res, nil
}

// lockPair locks both accounts in username order so concurrent opposite
// transfers cannot deadlock.
func lockPair(ctx context.Context, r repomanager.Repositories, from, to string) (*models.Account, *models.Account, error) {
	order := []string{from, to}
	slices.Sort(order)

	locked := make(map[string]*models.Account, 2)
	for _, username := range order {
		a, err := r.Accounts.GetByUsernameForUpdate(ctx, username)
		switch {
		case errors.Is(err, common.ErrorNotFound) && username == to:
			return nil, nil, ErrRecipientNotFound
		case errors.Is(err, common.ErrorNotFound):
			return nil, nil, ErrUserNotFound
		case err != nil:
			return nil, nil, err
		}
		locked[username] = a
	}
	return locked[from], locked[to], nil
}

func (l *Ledger) storeReceipt(ctx context.Context, t models.Transaction) {
	err := l.archive.Store(ctx, receipts.Receipt{
		TransactionID: t.ID,
		From:          t.FromUsername,
		To:            t.ToUsername,
		Amount:        t.Amount,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	})
	if err != nil {
		l.logger.Warn(ctx, "receipt not archived", "id", t.ID, "error", err)
	}
}

// Transactions lists the account's history. The credential is a session
// token for the account or a currently valid TOTP code.
func (l *Ledger) Transactions(ctx context.Context, username, credential string) ([]models.Transaction, error) {
	a, err := l.account(ctx, username)
	if err != nil {
		return nil, err
	}

	if isCode(credential) {
		if !a.TotpConfirmed {
			return nil, ErrUnauthorized
		}
		if err := l.checkCode(ctx, a, credential); err != nil {
			if errors.Is(err, ErrTooManyAttempts) {
				return nil, err
			}
			return nil, ErrUnauthorized
		}
	} else if err := l.checkSession(a, credential); err != nil {
		return nil, err
	}

	list, err := l.repos.Transactions().ListByAccount(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// SearchUsers returns up to ten accounts whose alias starts with q.
func (l *Ledger) SearchUsers(ctx context.Context, q string) ([]models.Account, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, nil
	}
	found, err := l.repos.Accounts().SearchByPrefix(ctx, q, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	return found, nil
}

// EditProfile changes the display name and/or alias. Values equal to the
// current ones are ignored; at least one field must change.
func (l *Ledger) EditProfile(ctx context.Context, username, token, name, newUsername string) (*ProfileResult, error) {
	a, err := l.account(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := l.checkSession(a, token); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	newUsername = strings.TrimSpace(newUsername)

	var changes []string
	updated := *a
	if name != "" && name != a.Name {
		if err := validateName(name); err != nil {
			return nil, err
		}
		updated.Name = name
		changes = append(changes, "name")
	}
	if newUsername != "" && newUsername != a.Username {
		if err := validateUsername(newUsername); err != nil {
			return nil, err
		}
		updated.Username = newUsername
		changes = append(changes, "username")
	}
	if len(changes) == 0 {
		return nil, invalid("profile", "no changes")
	}

	if err := l.repos.Accounts().UpdateProfile(ctx, a.ID, updated.Name, updated.Username); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrAliasTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	session, err := l.issuer.IssueSession(a.ID)
	if err != nil {
		return nil, err
	}
	l.logger.Info(ctx, "profile updated", "username", updated.Username, "changes", changes)
	return &ProfileResult{Account: &updated, Changes: changes, Token: session.Token}, nil
}

// ChangeEmail replaces the account's email after a valid TOTP code.
func (l *Ledger) ChangeEmail(ctx context.Context, username, code, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if err := validateEmail(newEmail); err != nil {
		return err
	}
	a, err := l.account(ctx, username)
	if err != nil {
		return err
	}
	if strings.EqualFold(a.Email, newEmail) {
		return invalid("newEmail", "matches the current email")
	}
	if err := l.checkCode(ctx, a, code); err != nil {
		return err
	}
	if err := l.repos.Accounts().UpdateEmail(ctx, a.ID, newEmail); err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	l.logger.Info(ctx, "email changed", "username", a.Username)
	return nil
}

// Ping checks that storage answers.
func (l *Ledger) Ping(ctx context.Context) error {
	_, err := l.repos.Accounts().SearchByPrefix(ctx, "", 1)
	return err
}
