package accounts

import (
	"context"

	"github.com/fu050409/bronya/internal/server/models"
)

// Repository is the persistence contract for account records. Updates replace
// the whole record; there is no partial-field merge.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIdentity(ctx context.Context, identity string) (*models.Account, error)
	HasConflict(ctx context.Context, username, email, phone string) (bool, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
