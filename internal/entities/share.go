package entities

import (
	"database/sql"
	"time"
)

type Share struct {
	ID               string         `db:"id"`
	DocumentID       string         `db:"document_id"`
	SharedWithUserID string         `db:"shared_with_user_id"`
	PermissionLevel  string         `db:"permission_level"`
	SharedBy         string         `db:"shared_by"`
	SharedAt         time.Time      `db:"shared_at"`
	ExpiresAt        sql.NullTime   `db:"expires_at"`
	IsRevoked        bool           `db:"is_revoked"`
	RevokedAt        sql.NullTime   `db:"revoked_at"`
	RevokedBy        sql.NullString `db:"revoked_by"`
}
