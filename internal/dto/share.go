package dto

import "time"

type ShareRequest struct {
	DocumentID       string     `json:"documentId"`
	SharedWithUserID string     `json:"sharedWithUserId"`
	PermissionLevel  string     `json:"permissionLevel"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}
