package auditservice

import (
	"context"
	"docmanager/internal/access"
	"docmanager/internal/models"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "auditService/"

// AuditService appends to the audit trail and answers admin queries over it.
// Entries are never updated or deleted.
type AuditService struct {
	log   *slog.Logger
	repo  AuditRepository
	clock func() time.Time
}

func New(log *slog.Logger, repo AuditRepository) *AuditService {
	return &AuditService{
		log:   log,
		repo:  repo,
		clock: time.Now,
	}
}

// Record stamps the entry with an id and timestamp when missing and stores it.
// It runs inside whatever transaction ctx carries.
func (a *AuditService) Record(ctx context.Context, entry *models.AuditLog) error {
	op := pkg + "Record"

	log := a.log.With(slog.String("op", op))

	if entry.ID == "" {
		entry.ID = uuid.NewV4().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = a.clock().UTC()
	}

	if err := a.repo.InsertLog(ctx, entry); err != nil {
		log.Error("failed to write audit entry",
			slog.String("action", entry.Action),
			slog.String("user_id", entry.UserID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return nil
}

func (a *AuditService) ByUser(ctx context.Context, requester *models.User, userID string, count int) ([]*models.AuditLog, error) {
	return a.query(ctx, requester, "ByUser", models.AuditFilter{UserID: userID, Limit: count})
}

func (a *AuditService) ByDocument(ctx context.Context, requester *models.User, docID string) ([]*models.AuditLog, error) {
	return a.query(ctx, requester, "ByDocument", models.AuditFilter{DocumentID: docID})
}

func (a *AuditService) ByActionType(ctx context.Context, requester *models.User, actionType models.ActionType, count int) ([]*models.AuditLog, error) {
	if !actionType.IsValid() {
		return nil, models.ErrInvalidParams
	}
	return a.query(ctx, requester, "ByActionType", models.AuditFilter{ActionType: actionType, Limit: count})
}

func (a *AuditService) ByDateRange(ctx context.Context, requester *models.User, from, to time.Time) ([]*models.AuditLog, error) {
	if to.Before(from) {
		return nil, models.ErrInvalidParams
	}
	return a.query(ctx, requester, "ByDateRange", models.AuditFilter{From: &from, To: &to})
}

func (a *AuditService) Failed(ctx context.Context, requester *models.User, count int) ([]*models.AuditLog, error) {
	return a.query(ctx, requester, "Failed", models.AuditFilter{FailedOnly: true, Limit: count})
}

func (a *AuditService) query(ctx context.Context, requester *models.User, name string, filter models.AuditFilter) ([]*models.AuditLog, error) {
	op := pkg + name

	log := a.log.With(slog.String("op", op))

	if requester == nil || !access.CanViewAuditLogs(requester.Role) {
		log.Warn("audit query denied")
		return nil, models.ErrForbidden
	}

	logs, err := a.repo.Logs(ctx, filter)
	if err != nil {
		log.Error("failed to query audit log", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("audit entries found", slog.Int("count", len(logs)))

	return logs, nil
}
