package models

import (
	"fmt"
	"strings"
	"time"
)

type AccessType string

const (
	AccessPublic     AccessType = "Public"
	AccessPrivate    AccessType = "Private"
	AccessRestricted AccessType = "Restricted"
)

func ParseAccessType(s string) (AccessType, error) {
	for _, at := range []AccessType{AccessPublic, AccessPrivate, AccessRestricted} {
		if strings.EqualFold(strings.TrimSpace(s), string(at)) {
			return at, nil
		}
	}
	return "", fmt.Errorf("%w: access type %q", ErrInvalidParams, s)
}

type Document struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	FileName       string     `json:"file_name"`
	FilePath       string     `json:"file_path"`
	FileSize       int64      `json:"file_size"`
	ContentType    string     `json:"content_type"`
	AccessType     AccessType `json:"access_type"`
	OwnerID        string     `json:"owner_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Tags           []Tag      `json:"tags"`
}

func (d *Document) TagNames() []string {
	names := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		names = append(names, t.Name)
	}
	return names
}

// DocumentView is a document together with what the requesting user may do with it.
type DocumentView struct {
	Document  *Document
	CanEdit   bool
	CanDelete bool
	CanShare  bool
}

type UploadRequest struct {
	Title       string
	Description *string
	AccessType  AccessType
	FileName    string
	ContentType string
	Size        int64
	Tags        []string
}

// UpdateRequest carries a partial update. Nil fields are left unchanged;
// ClearDescription sets the description to null.
type UpdateRequest struct {
	Title            *string
	Description      *string
	ClearDescription bool
	AccessType       *AccessType
	Tags             *[]string
}

type SearchRequest struct {
	Term        string
	ContentType string
	Tags        []string
	AccessType  *AccessType
	Page        Page
}

// DocumentScope selects documents visible through one access path.
// Empty fields do not filter.
type DocumentScope struct {
	OwnerID          string
	SharedWithUserID string
	PublicOnly       bool
	Now              time.Time
}
