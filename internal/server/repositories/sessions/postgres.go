// Package sessions provides a PostgreSQL-backed repository for per-device
// session records.
package sessions

import (
	"context"
	"database/sql"
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

// Get returns the session for the given device id, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, deviceID string) (*models.Session, error) {
	query := `
		SELECT id, account_id, key, token, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, deviceID).
		Scan(&session.ID, &session.AccountID, &session.Key, &session.Token,
			&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// Upsert creates the session or fully overwrites the existing record for the
// same device id, bumping updated_at either way.
func (r *PostgresRepository) Upsert(ctx context.Context, session *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, account_id, key, token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET account_id = EXCLUDED.account_id, key = EXCLUDED.key,
		    token = EXCLUDED.token, updated_at = now()
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.ID, session.AccountID, session.Key, session.Token).
		Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// Delete removes the session for the given device id. Returns
// common.ErrorNotFound when no row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, deviceID string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, deviceID)
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

// DeleteByAccount removes every session owned by accountID. Deleting zero
// rows is not an error: an account may have no live sessions.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM sessions WHERE account_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
