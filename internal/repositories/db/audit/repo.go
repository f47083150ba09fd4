package auditrepo

import (
	"context"
	"docmanager/internal/dbs/postgres"
	"docmanager/internal/entities"
	"docmanager/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "auditRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) InsertLog(ctx context.Context, entry *models.AuditLog) error {
	op := pkg + "InsertLog"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO audit_logs (id, document_id, user_id, action, action_type, details, timestamp, is_successful, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entities.NullString(entry.DocumentID), entry.UserID, entry.Action, string(entry.ActionType),
		entry.Details, entry.Timestamp, entry.IsSuccessful, entities.NullString(entry.ErrorMessage))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Logs returns matching entries newest first.
func (r *repository) Logs(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	op := pkg + "Logs"

	f := &postgres.Filter{}

	if filter.UserID != "" {
		f.Where("a.user_id = " + f.Arg(filter.UserID))
	}
	if filter.DocumentID != "" {
		f.Where("a.document_id = " + f.Arg(filter.DocumentID))
	}
	if filter.ActionType != "" {
		f.Where("a.action_type = " + f.Arg(string(filter.ActionType)))
	}
	if filter.From != nil {
		f.Where("a.timestamp >= " + f.Arg(*filter.From))
	}
	if filter.To != nil {
		f.Where("a.timestamp <= " + f.Arg(*filter.To))
	}
	if filter.FailedOnly {
		f.Where("a.is_successful = FALSE")
	}

	query := `SELECT
			a.id AS id,
			a.document_id AS document_id,
			a.user_id AS user_id,
			a.action AS action,
			a.action_type AS action_type,
			a.details AS details,
			a.timestamp AS timestamp,
			a.is_successful AS is_successful,
			a.error_message AS error_message
		FROM audit_logs a` + f.SQL() + `
		ORDER BY a.timestamp DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + f.Arg(filter.Limit)
	}

	rawLogs := make([]entities.AuditLog, 0)

	if err := sqlx.SelectContext(ctx, postgres.Conn(ctx, r.db), &rawLogs, query, f.Args()...); err != nil {
		// a malformed id matches nothing
		if postgres.IsInvalidInput(err) {
			return []*models.AuditLog{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logs := make([]*models.AuditLog, 0, len(rawLogs))
	for _, raw := range rawLogs {
		logs = append(logs, toModel(raw))
	}

	return logs, nil
}

func toModel(raw entities.AuditLog) *models.AuditLog {
	return &models.AuditLog{
		ID:           raw.ID,
		DocumentID:   entities.StringPtr(raw.DocumentID),
		UserID:       raw.UserID,
		Action:       raw.Action,
		ActionType:   models.ActionType(raw.ActionType),
		Details:      raw.Details,
		Timestamp:    raw.Timestamp,
		IsSuccessful: raw.IsSuccessful,
		ErrorMessage: entities.StringPtr(raw.ErrorMessage),
	}
}
