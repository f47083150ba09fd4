package shares

import (
	"context"
	"docmanager/internal/models"
)

const pkg = "sharesHandler/"

type DocumentSharer interface {
	ShareDocument(ctx context.Context, requester *models.User, req models.ShareRequest) (*models.Share, error)
	RevokeShare(ctx context.Context, requester *models.User, shareID string) error
	DocumentShares(ctx context.Context, requester *models.User, docID string) ([]*models.Share, error)
}
