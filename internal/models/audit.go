package models

import "time"

type ActionType string

const (
	ActionCreate       ActionType = "Create"
	ActionRead         ActionType = "Read"
	ActionUpdate       ActionType = "Update"
	ActionDelete       ActionType = "Delete"
	ActionShare        ActionType = "Share"
	ActionDownload     ActionType = "Download"
	ActionLogin        ActionType = "Login"
	ActionLogout       ActionType = "Logout"
	ActionAccessDenied ActionType = "AccessDenied"
)

var actionTypes = map[ActionType]bool{
	ActionCreate:       true,
	ActionRead:         true,
	ActionUpdate:       true,
	ActionDelete:       true,
	ActionShare:        true,
	ActionDownload:     true,
	ActionLogin:        true,
	ActionLogout:       true,
	ActionAccessDenied: true,
}

func (a ActionType) IsValid() bool {
	return actionTypes[a]
}

type AuditLog struct {
	ID           string     `json:"id"`
	DocumentID   *string    `json:"document_id,omitempty"`
	UserID       string     `json:"user_id"`
	Action       string     `json:"action"`
	ActionType   ActionType `json:"action_type"`
	Details      string     `json:"details,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
	IsSuccessful bool       `json:"is_successful"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// AuditFilter narrows an audit query. Zero values do not filter; Limit 0 means no cap.
type AuditFilter struct {
	UserID     string
	DocumentID string
	ActionType ActionType
	From       *time.Time
	To         *time.Time
	FailedOnly bool
	Limit      int
}
