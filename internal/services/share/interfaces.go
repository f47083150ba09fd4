package shareservice

import (
	"context"
	"docmanager/internal/models"
	"time"
)

type ShareRepository interface {
	LockDocument(ctx context.Context, docID string) error
	ActiveShare(ctx context.Context, docID string, userID string, now time.Time) (*models.Share, error)
	LatestGrant(ctx context.Context, docID string, userID string) (*models.Share, error)
	ShareByID(ctx context.Context, id string) (*models.Share, error)
	SharesByDocument(ctx context.Context, docID string) ([]*models.Share, error)
	CreateShare(ctx context.Context, share *models.Share) error
	UpdateGrant(ctx context.Context, share *models.Share) error
	RevokeShare(ctx context.Context, id string, revokedBy string, at time.Time) (bool, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
