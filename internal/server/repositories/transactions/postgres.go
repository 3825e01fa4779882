package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/dbx"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO transactions (id, kind, from_account_id, to_account_id, amount, description, awarded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	from := sql.NullString{String: t.FromAccountID, Valid: t.FromAccountID != ""}
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Kind, from, t.ToAccountID, t.Amount, t.Description, t.AwardedBy).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query :=
		`SELECT t.id, t.kind, t.from_account_id, t.to_account_id, t.amount, t.description, t.awarded_by, t.created_at,
		        COALESCE(f.username, ''), COALESCE(f.name, ''), r.username, r.name
		 FROM transactions t
		 LEFT JOIN accounts f ON f.id = t.from_account_id
		 JOIN accounts r ON r.id = t.to_account_id
		 WHERE t.from_account_id = $1 OR t.to_account_id = $1
		 ORDER BY t.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			t    models.Transaction
			from sql.NullString
		)
		err := rows.Scan(&t.ID, &t.Kind, &from, &t.ToAccountID, &t.Amount, &t.Description, &t.AwardedBy, &t.CreatedAt,
			&t.FromUsername, &t.FromName, &t.ToUsername, &t.ToName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.FromAccountID = from.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
