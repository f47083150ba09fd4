package documentservice

import (
	"context"
	"docmanager/internal/models"
	"io"
	"time"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context, scope models.DocumentScope, page models.Page) ([]*models.Document, int, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	ReplaceTags(ctx context.Context, docID string, tags []models.Tag, assignedBy string, at time.Time) error
	MarkBlobPurged(ctx context.Context, id string, at time.Time) error
}

type ShareRegistry interface {
	ActiveShareFor(ctx context.Context, docID string, userID string) (*models.Share, error)
	GrantOrUpdate(ctx context.Context, req models.ShareRequest, grantor string) (*models.Share, error)
	Revoke(ctx context.Context, shareID string, revokedBy string) error
	ShareByID(ctx context.Context, shareID string) (*models.Share, error)
	SharesByDocument(ctx context.Context, docID string) ([]*models.Share, error)
}

type TagResolver interface {
	GetOrCreate(ctx context.Context, names []string, userID string) ([]models.Tag, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

type BlobStorage interface {
	Save(ctx context.Context, r io.Reader, name string, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, path string) (bool, error)
	MaxSize() int64
	IsAllowedType(contentType string) bool
}

// Cache holds serialized document metadata by document id.
type Cache interface {
	Document(ctx context.Context, docID string) (*models.Document, error)
	StoreDocument(ctx context.Context, doc *models.Document) error
	Forget(ctx context.Context, docIDs ...string) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type DecisionRecorder interface {
	ObserveDecision(operation string, allowed bool)
}
