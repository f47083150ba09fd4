package entities

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	ID           string         `db:"id"`
	DocumentID   sql.NullString `db:"document_id"`
	UserID       string         `db:"user_id"`
	Action       string         `db:"action"`
	ActionType   string         `db:"action_type"`
	Details      string         `db:"details"`
	Timestamp    time.Time      `db:"timestamp"`
	IsSuccessful bool           `db:"is_successful"`
	ErrorMessage sql.NullString `db:"error_message"`
}
