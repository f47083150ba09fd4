package auditservice

import (
	"context"
	"docmanager/internal/models"
)

type AuditRepository interface {
	InsertLog(ctx context.Context, entry *models.AuditLog) error
	Logs(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}
