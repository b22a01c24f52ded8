package sessions

import (
	"context"

	"github.com/fu050409/bronya/internal/server/models"
)

// Repository is the persistence contract for session records, keyed by
// device id. Upsert replaces the whole record.
type Repository interface {
	Get(ctx context.Context, deviceID string) (*models.Session, error)
	Upsert(ctx context.Context, session *models.Session) (*models.Session, error)
	Delete(ctx context.Context, deviceID string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
