package docs

import (
	"context"
	"docmanager/internal/models"
	"io"
)

const pkg = "docsHandler/"

type DocumentUploader interface {
	UploadDocument(ctx context.Context, requester *models.User, req models.UploadRequest, content io.Reader) (*models.Document, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, requester *models.User, docID string) (*models.DocumentView, error)
	ListMine(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error)
	ListSharedWithMe(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error)
	ListPublic(ctx context.Context, page models.Page) (models.PageResult[*models.Document], error)
	SearchDocuments(ctx context.Context, requester *models.User, req models.SearchRequest) (models.PageResult[*models.Document], error)
}

type DocumentUpdater interface {
	UpdateDocument(ctx context.Context, requester *models.User, docID string, req models.UpdateRequest) (*models.Document, error)
}

type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, requester *models.User, docID string) error
}

type DocumentDownloader interface {
	DownloadDocument(ctx context.Context, requester *models.User, docID string) (*models.Document, io.ReadCloser, error)
}
