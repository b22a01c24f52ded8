package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/dbx"
	"github.com/fu050409/bronya/internal/logging"
	"github.com/fu050409/bronya/internal/server/config"
	"github.com/fu050409/bronya/internal/server/models"
	accountsrepo "github.com/fu050409/bronya/internal/server/repositories/accounts"
	sessionsrepo "github.com/fu050409/bronya/internal/server/repositories/sessions"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{SessionTokenValidityDuration: 30 * 24 * time.Hour}
}

type fakeAccountsRepo struct {
	createOut *models.Account
	createErr error

	byIDOut *models.Account
	byIDErr error

	byIdentityOut *models.Account
	byIdentityErr error

	conflict    bool
	conflictErr error

	updateOut *models.Account
	updateErr error

	deleteErr    error
	deletedIDs   []string
	lastCreated  *models.Account
	lastUpserted *models.Account
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastCreated = a
	if f.createOut != nil {
		return f.createOut, nil
	}
	a.ID = "acc-1"
	return a, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeAccountsRepo) GetByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	if f.byIdentityErr != nil {
		return nil, f.byIdentityErr
	}
	return f.byIdentityOut, nil
}

func (f *fakeAccountsRepo) HasConflict(ctx context.Context, username, email, phone string) (bool, error) {
	return f.conflict, f.conflictErr
}

func (f *fakeAccountsRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastUpserted = a
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return a, nil
}

func (f *fakeAccountsRepo) Delete(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

type fakeSessionsRepo struct {
	getOut *models.Session
	getErr error

	upsertErr error
	upserted  []*models.Session

	deleteErr      error
	deletedDevices []string

	deleteByAccountErr error
	deletedAccounts    []string
}

func (f *fakeSessionsRepo) Get(ctx context.Context, deviceID string) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakeSessionsRepo) Upsert(ctx context.Context, s *models.Session) (*models.Session, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = append(f.upserted, s)
	return s, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, deviceID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedDevices = append(f.deletedDevices, deviceID)
	return nil
}

func (f *fakeSessionsRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	if f.deleteByAccountErr != nil {
		return f.deleteByAccountErr
	}
	f.deletedAccounts = append(f.deletedAccounts, accountID)
	return nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	s *fakeSessionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository         { return m.a }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository         { return m.s }

func newServices(t *testing.T, db *sql.DB, rm *fakeRepoManager) (*AccountService, *SessionService) {
	t.Helper()
	ss := NewSessionService(db, rm, testConfig(), testLogger())
	as := NewAccountService(db, rm, ss, testLogger())
	return as, ss
}
