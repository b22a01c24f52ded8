// Package accounts provides a PostgreSQL-backed repository for account
// records, including the JSONB-encoded profile sub-record.
package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/dbx"
	"github.com/fu050409/bronya/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, username, password, COALESCE(email, ''), COALESCE(phone, ''), profile, rating, credit_score, is_admin, is_active, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var profile []byte

	err := row.Scan(&account.ID, &account.Username, &account.Password,
		&account.Email, &account.Phone, &profile, &account.Rating,
		&account.CreditScore, &account.IsAdmin, &account.IsActive,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(profile, &account.Profile); err != nil {
		return nil, fmt.Errorf("profile decode error: %w", err)
	}

	return account, nil
}

// nullable maps an empty string to SQL NULL so the partial unique indexes on
// email/phone are not tripped by empty values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a new account and returns it with the generated id and
// timestamps filled in.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	profile, err := json.Marshal(account.Profile)
	if err != nil {
		return nil, fmt.Errorf("profile encode error: %w", err)
	}

	query := `
		INSERT INTO accounts (username, password, email, phone, profile, rating, credit_score, is_admin, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		account.Username, account.Password, nullable(account.Email), nullable(account.Phone),
		profile, account.Rating, account.CreditScore, account.IsAdmin, account.IsActive).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// GetByID returns the account with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByIdentity returns the account whose username or email equals identity,
// or common.ErrorNotFound.
func (r *PostgresRepository) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 OR email = $1 LIMIT 1`
	return scanAccount(r.db.QueryRowContext(ctx, query, identity))
}

// HasConflict reports whether an account already uses the given username,
// email, or phone. Empty email/phone never match.
func (r *PostgresRepository) HasConflict(ctx context.Context, username, email, phone string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM accounts
		WHERE username = $1 OR email = $2 OR phone = $3
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, username, nullable(email), nullable(phone)).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

// Update overwrites the whole account record and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	profile, err := json.Marshal(account.Profile)
	if err != nil {
		return nil, fmt.Errorf("profile encode error: %w", err)
	}

	query := `
		UPDATE accounts
		SET username = $2, password = $3, email = $4, phone = $5, profile = $6,
		    rating = $7, credit_score = $8, is_admin = $9, is_active = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Password, nullable(account.Email), nullable(account.Phone),
		profile, account.Rating, account.CreditScore, account.IsAdmin, account.IsActive).
		Scan(&account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// Delete removes the account with the given id. Returns common.ErrorNotFound
// when no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
