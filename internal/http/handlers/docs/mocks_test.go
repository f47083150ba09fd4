package docs

import (
	"context"
	"docmanager/internal/models"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
)

type mockDocService struct {
	mock.Mock
}

func (m *mockDocService) UploadDocument(ctx context.Context, requester *models.User, req models.UploadRequest, content io.Reader) (*models.Document, error) {
	args := m.Called(ctx, requester, req, content)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *mockDocService) DocumentByID(ctx context.Context, requester *models.User, docID string) (*models.DocumentView, error) {
	args := m.Called(ctx, requester, docID)
	return args.Get(0).(*models.DocumentView), args.Error(1)
}

func (m *mockDocService) ListMine(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error) {
	args := m.Called(ctx, requester, page)
	return args.Get(0).(models.PageResult[*models.Document]), args.Error(1)
}

func (m *mockDocService) ListSharedWithMe(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error) {
	args := m.Called(ctx, requester, page)
	return args.Get(0).(models.PageResult[*models.Document]), args.Error(1)
}

func (m *mockDocService) ListPublic(ctx context.Context, page models.Page) (models.PageResult[*models.Document], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(models.PageResult[*models.Document]), args.Error(1)
}

func (m *mockDocService) SearchDocuments(ctx context.Context, requester *models.User, req models.SearchRequest) (models.PageResult[*models.Document], error) {
	args := m.Called(ctx, requester, req)
	return args.Get(0).(models.PageResult[*models.Document]), args.Error(1)
}

func (m *mockDocService) UpdateDocument(ctx context.Context, requester *models.User, docID string, req models.UpdateRequest) (*models.Document, error) {
	args := m.Called(ctx, requester, docID, req)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *mockDocService) DeleteDocument(ctx context.Context, requester *models.User, docID string) error {
	args := m.Called(ctx, requester, docID)
	return args.Error(0)
}

func (m *mockDocService) DownloadDocument(ctx context.Context, requester *models.User, docID string) (*models.Document, io.ReadCloser, error) {
	args := m.Called(ctx, requester, docID)
	var rc io.ReadCloser
	if v := args.Get(1); v != nil {
		rc = v.(io.ReadCloser)
	}
	return args.Get(0).(*models.Document), rc, args.Error(2)
}

var alice = &models.User{ID: "alice", Email: "alice@example.com", Role: models.RoleContributor}

func withUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
}

func ptr(s string) *string { return &s }
