package entities

import (
	"database/sql"
	"time"
)

type Document struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    sql.NullString `db:"description"`
	FileName       string         `db:"file_name"`
	FilePath       string         `db:"file_path"`
	FileSize       int64          `db:"file_size"`
	ContentType    string         `db:"content_type"`
	AccessType     string         `db:"access_type"`
	OwnerID        string         `db:"owner_id"`
	CreatedAt      time.Time      `db:"created_at"`
	LastModifiedAt sql.NullTime   `db:"last_modified_at"`
	IsDeleted      bool           `db:"is_deleted"`
	DeletedAt      sql.NullTime   `db:"deleted_at"`
}

type DocumentTag struct {
	DocumentID string         `db:"document_id"`
	TagID      string         `db:"tag_id"`
	Name       string         `db:"name"`
	Color      sql.NullString `db:"color"`
	CreatedBy  string         `db:"created_by"`
	CreatedAt  time.Time      `db:"created_at"`
}
