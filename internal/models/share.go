package models

import (
	"fmt"
	"strings"
	"time"
)

type PermissionLevel string

const (
	PermissionView        PermissionLevel = "View"
	PermissionEdit        PermissionLevel = "Edit"
	PermissionFullControl PermissionLevel = "FullControl"
)

func ParsePermissionLevel(s string) (PermissionLevel, error) {
	for _, pl := range []PermissionLevel{PermissionView, PermissionEdit, PermissionFullControl} {
		if strings.EqualFold(strings.TrimSpace(s), string(pl)) {
			return pl, nil
		}
	}
	return "", fmt.Errorf("%w: permission level %q", ErrInvalidParams, s)
}

func (p PermissionLevel) AllowsEdit() bool {
	return p == PermissionEdit || p == PermissionFullControl
}

type Share struct {
	ID               string          `json:"id"`
	DocumentID       string          `json:"document_id"`
	SharedWithUserID string          `json:"shared_with_user_id"`
	PermissionLevel  PermissionLevel `json:"permission_level"`
	SharedBy         string          `json:"shared_by"`
	SharedAt         time.Time       `json:"shared_at"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	IsRevoked        bool            `json:"is_revoked"`
	RevokedAt        *time.Time      `json:"revoked_at,omitempty"`
	RevokedBy        *string         `json:"revoked_by,omitempty"`
}

// IsActive reports whether the share grants anything at now.
func (s *Share) IsActive(now time.Time) bool {
	if s == nil || s.IsRevoked {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

type ShareRequest struct {
	DocumentID       string
	SharedWithUserID string
	PermissionLevel  PermissionLevel
	ExpiresAt        *time.Time
}
