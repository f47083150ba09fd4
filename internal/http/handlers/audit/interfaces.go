package audit

import (
	"context"
	"docmanager/internal/models"
	"time"
)

const pkg = "auditHandler/"

const defaultCount = 100

type AuditQuerier interface {
	ByUser(ctx context.Context, requester *models.User, userID string, count int) ([]*models.AuditLog, error)
	ByDocument(ctx context.Context, requester *models.User, docID string) ([]*models.AuditLog, error)
	ByActionType(ctx context.Context, requester *models.User, actionType models.ActionType, count int) ([]*models.AuditLog, error)
	ByDateRange(ctx context.Context, requester *models.User, from, to time.Time) ([]*models.AuditLog, error)
	Failed(ctx context.Context, requester *models.User, count int) ([]*models.AuditLog, error)
}
