package dto

import (
	"docmanager/internal/models"
	"encoding/json"
	"time"
)

// UploadMeta is the "meta" part of a multipart upload.
type UploadMeta struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	AccessType  string   `json:"accessType"`
	Tags        []string `json:"tags"`
}

// UpdateDocumentRequest is a partial update; absent fields stay unchanged and
// an explicit null description clears it.
type UpdateDocumentRequest struct {
	Title       *string        `json:"title"`
	Description NullableString `json:"description"`
	AccessType  *string        `json:"accessType"`
	Tags        *[]string      `json:"tags"`
}

// NullableString tells an absent field (Set false) from an explicit null
// (Set true, Value nil).
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s

	return nil
}

// Null reports an explicit null.
func (n NullableString) Null() bool {
	return n.Set && n.Value == nil
}

type DocumentResponse struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    *string      `json:"description,omitempty"`
	FileName       string       `json:"fileName"`
	FileSize       int64        `json:"fileSize"`
	ContentType    string       `json:"contentType"`
	AccessType     string       `json:"accessType"`
	OwnerID        string       `json:"ownerId"`
	CreatedAt      time.Time    `json:"createdAt"`
	LastModifiedAt *time.Time   `json:"lastModifiedAt,omitempty"`
	Tags           []models.Tag `json:"tags"`
	Permissions    *Permissions `json:"permissions,omitempty"`
}

type Permissions struct {
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
	CanShare  bool `json:"canShare"`
}

type DocumentPage struct {
	Items      []DocumentResponse `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalCount int                `json:"totalCount"`
	TotalPages int                `json:"totalPages"`
}

func ToDocumentResponse(doc *models.Document) DocumentResponse {
	tags := doc.Tags
	if tags == nil {
		tags = make([]models.Tag, 0)
	}

	return DocumentResponse{
		ID:             doc.ID,
		Title:          doc.Title,
		Description:    doc.Description,
		FileName:       doc.FileName,
		FileSize:       doc.FileSize,
		ContentType:    doc.ContentType,
		AccessType:     string(doc.AccessType),
		OwnerID:        doc.OwnerID,
		CreatedAt:      doc.CreatedAt,
		LastModifiedAt: doc.LastModifiedAt,
		Tags:           tags,
	}
}

func ToDocumentViewResponse(view *models.DocumentView) DocumentResponse {
	resp := ToDocumentResponse(view.Document)
	resp.Permissions = &Permissions{
		CanEdit:   view.CanEdit,
		CanDelete: view.CanDelete,
		CanShare:  view.CanShare,
	}
	return resp
}

func ToDocumentPage(page models.PageResult[*models.Document]) DocumentPage {
	items := make([]DocumentResponse, 0, len(page.Items))
	for _, doc := range page.Items {
		items = append(items, ToDocumentResponse(doc))
	}

	return DocumentPage{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
}
