package models

import "time"

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type TagUsage struct {
	Tag           Tag `json:"tag"`
	DocumentCount int `json:"document_count"`
}
