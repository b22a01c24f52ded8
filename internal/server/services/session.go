// Package services contains server-side business logic: account registration
// and login, session issue/refresh/teardown, credential verification, and
// avatar storage presigning.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/dbx"
	"github.com/fu050409/bronya/internal/logging"
	"github.com/fu050409/bronya/internal/server/auth"
	"github.com/fu050409/bronya/internal/server/config"
	"github.com/fu050409/bronya/internal/server/models"
	"github.com/fu050409/bronya/internal/server/repositories/repomanager"
	"github.com/fu050409/bronya/internal/shared"
)

// SessionService manages per-device session records and gates every
// protected operation through IsValid.
type SessionService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	tokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *SessionService {
	return &SessionService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "session_service"),
		tokenValidityDuration: cfg.SessionTokenValidityDuration,
	}
}

// Generate builds a new in-memory session for accountID on deviceID: a fresh
// random signing key and an initial token. The caller persists it with Save.
func (s *SessionService) Generate(accountID, deviceID string) (*models.Session, error) {
	key, err := shared.MakeRandURLSafeString(common.SessionKeyLength)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(accountID, deviceID, []byte(key), s.tokenValidityDuration)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.Session{
		ID:        deviceID,
		AccountID: accountID,
		Key:       key,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Refresh issues a new token for the session using its existing key. The key
// never rotates, so previously issued unexpired tokens remain valid.
func (s *SessionService) Refresh(session *models.Session) error {
	token, err := auth.GenerateToken(session.AccountID, session.ID, []byte(session.Key), s.tokenValidityDuration)
	if err != nil {
		return err
	}
	session.Token = token
	return nil
}

// Save persists the session (create or full overwrite) on the given handle.
func (s *SessionService) Save(ctx context.Context, db dbx.DBTX, session *models.Session) (*models.Session, error) {
	return s.repomanager.Sessions(db).Upsert(ctx, session)
}

// Get loads the session for deviceID, or common.ErrorNotFound.
func (s *SessionService) Get(ctx context.Context, deviceID string) (*models.Session, error) {
	return s.repomanager.Sessions(s.db).Get(ctx, deviceID)
}

// Delete removes the session for deviceID, which also revokes every token
// signed with its key. Returns common.ErrorNotFound when absent.
func (s *SessionService) Delete(ctx context.Context, deviceID string) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, deviceID)
}

// IsValid reports whether the presented credentials authorize a protected
// action: the device's session must exist, belong to the claimed account, and
// the token must verify against the session's stored key. Read-only; the
// distinct failure causes are collapsed to a boolean, logged at debug level.
func (s *SessionService) IsValid(ctx context.Context, creds models.Credentials) bool {
	session, err := s.repomanager.Sessions(s.db).Get(ctx, creds.DeviceID)
	if err != nil {
		s.logger.Debug(ctx, "credential check failed", "cause", "no session", "device_id", creds.DeviceID)
		return false
	}

	if session.AccountID != creds.UserID {
		s.logger.Debug(ctx, "credential check failed", "cause", "account mismatch", "device_id", creds.DeviceID)
		return false
	}

	if err := auth.ValidateToken(creds.Token, []byte(session.Key)); err != nil {
		s.logger.Debug(ctx, "credential check failed", "cause", err.Error(), "device_id", creds.DeviceID)
		return false
	}

	return true
}
