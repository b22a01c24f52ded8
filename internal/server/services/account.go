package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/dbx"
	"github.com/fu050409/bronya/internal/logging"
	"github.com/fu050409/bronya/internal/server/auth"
	"github.com/fu050409/bronya/internal/server/models"
	"github.com/fu050409/bronya/internal/server/repositories/repomanager"
)

// ValidationError carries the full list of field-level problems found in a
// request. It is produced eagerly at the boundary; the session core never
// sees invalid input.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}

// AccountService provides the account lifecycle operations:
// - Register: create an account plus its first device session
// - Login: verify the password and refresh or create the device session
// - Logout: tear down the device session
// - Delete: remove the account and cascade its sessions
// - UpdateProfile: replace the profile sub-record
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	logger      logging.Logger
}

// NewAccountService constructs an AccountService on top of the repositories
// and the session service.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, l logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		logger:      l.With("module", "account_service"),
	}
}

// Register validates the registration request, rejects conflicts on
// username/email/phone, creates the account with a hashed password, and
// issues the first session for the requesting device.
func (s *AccountService) Register(ctx context.Context, reg *models.Register) (*models.UserToken, error) {
	if errs := reg.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	repo := s.repomanager.Accounts(s.db)

	conflict, err := repo.HasConflict(ctx, reg.Username, reg.Email, reg.Phone)
	if err != nil {
		s.logger.Error(ctx, "conflict check failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	if conflict {
		return nil, common.ErrorAlreadyExists
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	account, err := repo.Create(ctx, models.NewAccount(reg, hash))
	if err != nil {
		s.logger.Error(ctx, "account creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	session, err := s.sessions.Generate(account.ID, reg.DeviceID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if _, err := s.sessions.Save(ctx, s.db, session); err != nil {
		s.logger.Error(ctx, "session save failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &models.UserToken{
		UserID:   account.ID,
		Username: account.Username,
		Token:    session.Token,
	}, nil
}

// Login verifies the password for the account matching identity (username or
// email) and returns a token for the requesting device. An existing session
// for the device is refreshed (its key is kept); otherwise a new session is
// generated. Returns common.ErrorNotFound for an unknown identity and
// common.ErrorUnauthorized for a bad password.
func (s *AccountService) Login(ctx context.Context, login *models.Login) (*models.UserToken, error) {
	if errs := login.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	account, err := s.repomanager.Accounts(s.db).GetByIdentity(ctx, login.Identity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(login.Password, account.Password) {
		return nil, common.ErrorUnauthorized
	}

	session, err := s.sessions.Get(ctx, login.DeviceID)
	switch {
	case err == nil:
		if err := s.sessions.Refresh(session); err != nil {
			return nil, common.ErrorInternal
		}
	case errors.Is(err, common.ErrorNotFound):
		session, err = s.sessions.Generate(account.ID, login.DeviceID)
		if err != nil {
			return nil, common.ErrorInternal
		}
	default:
		s.logger.Error(ctx, "session lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if _, err := s.sessions.Save(ctx, s.db, session); err != nil {
		s.logger.Error(ctx, "session save failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &models.UserToken{
		UserID:   account.ID,
		Username: account.Username,
		Token:    session.Token,
	}, nil
}

// Logout tears down the session for the device named in credentials.
func (s *AccountService) Logout(ctx context.Context, creds models.Credentials) error {
	if !s.sessions.IsValid(ctx, creds) {
		return common.ErrorUnauthorized
	}

	if err := s.sessions.Delete(ctx, creds.DeviceID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "session delete failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// Delete removes the account and all of its sessions in one transaction.
// The schema-level ON DELETE CASCADE covers the same ground; deleting inside
// the transaction keeps the cascade explicit where the store lacks triggers.
func (s *AccountService) Delete(ctx context.Context, creds models.Credentials) error {
	if !s.sessions.IsValid(ctx, creds) {
		return common.ErrorUnauthorized
	}

	if _, err := s.repomanager.Accounts(s.db).GetByID(ctx, creds.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return common.ErrorInternal
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).DeleteByAccount(ctx, creds.UserID); err != nil {
			return fmt.Errorf("error deleting sessions: %w", err)
		}
		if err := s.repomanager.Accounts(tx).Delete(ctx, creds.UserID); err != nil {
			return fmt.Errorf("error deleting account: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "account delete failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// UpdateProfile replaces the whole profile sub-record of the account named in
// credentials and returns the stored profile. There is no partial merge.
func (s *AccountService) UpdateProfile(ctx context.Context, creds models.Credentials, profile models.Profile) (*models.Profile, error) {
	if !s.sessions.IsValid(ctx, creds) {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByID(ctx, creds.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	account.Profile = profile
	updated, err := repo.Update(ctx, account)
	if err != nil {
		s.logger.Error(ctx, "profile update failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &updated.Profile, nil
}
