package repomanager

import (
	"context"
	"database/sql"

	"github.com/fu050409/bronya/internal/dbx"
	"github.com/fu050409/bronya/internal/server/repositories/accounts"
	"github.com/fu050409/bronya/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against *sql.DB and inside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
