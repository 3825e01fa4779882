package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/dbx"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `SELECT id, name, username, email, balance, totp_secret, totp_confirmed, created_at FROM accounts`

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Name, &a.Username, &a.Email, &a.Balance, &a.TotpSecret, &a.TotpConfirmed, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO accounts (id, name, username, email, balance, totp_secret, totp_confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Username, a.Email, a.Balance, a.TotpSecret, a.TotpConfirmed).Scan(&a.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByUsernameForUpdate(ctx context.Context, username string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE username = $1 FOR UPDATE`, username))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// exec runs a single-row UPDATE and reports ErrorNotFound when nothing matched.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ReplaceSecret(ctx context.Context, id, secret string) error {
	return r.exec(ctx, `UPDATE accounts SET totp_secret = $2, totp_confirmed = FALSE WHERE id = $1`, id, secret)
}

func (r *PostgresRepository) ConfirmSecret(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE accounts SET totp_confirmed = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) AddBalance(ctx context.Context, id string, delta int64) (int64, error) {
	query :=
		`UPDATE accounts SET balance = balance + $2
		 WHERE id = $1
		 RETURNING balance
		 `

	var balance int64
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&balance); err != nil {
		return 0, mapError(err)
	}
	return balance, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, username string) error {
	return r.exec(ctx, `UPDATE accounts SET name = $2, username = $3 WHERE id = $1`, id, name, username)
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.exec(ctx, `UPDATE accounts SET email = $2 WHERE id = $1`, id, email)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Account, error) {
	query := selectAccount + ` WHERE username LIKE $1 ORDER BY username LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, likeEscaper.Replace(prefix)+"%", limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
