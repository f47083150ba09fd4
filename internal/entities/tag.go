package entities

import (
	"database/sql"
	"time"
)

type Tag struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Color     sql.NullString `db:"color"`
	CreatedBy string         `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
}

type TagUsage struct {
	Tag
	DocumentCount int `db:"document_count"`
}
