package tags

import (
	"context"
	"docmanager/internal/models"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTags struct {
	mock.Mock
}

func (m *mockTags) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *mockTags) PopularTags(ctx context.Context, count int) ([]models.TagUsage, error) {
	args := m.Called(ctx, count)
	return args.Get(0).([]models.TagUsage), args.Error(1)
}

func (m *mockTags) TagByID(ctx context.Context, id string) (*models.Tag, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *mockTags) CreateTag(ctx context.Context, requester *models.User, name string, color *string) (*models.Tag, error) {
	args := m.Called(ctx, requester, name, color)
	return args.Get(0).(*models.Tag), args.Error(1)
}

func TestList(t *testing.T) {
	t.Parallel()

	tp := new(mockTags)
	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	w := httptest.NewRecorder()

	tp.On("ListTags", mock.Anything).Return([]models.Tag{{ID: "t1", Name: "finance"}}, nil)

	List(req.Context(), slog.Default(), w, req, tp)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"finance"`)
}

func TestPopular_PassesCount(t *testing.T) {
	t.Parallel()

	tp := new(mockTags)
	req := httptest.NewRequest(http.MethodGet, "/api/tags/popular?count=3", nil)
	w := httptest.NewRecorder()

	tp.On("PopularTags", mock.Anything, 3).Return([]models.TagUsage{{Tag: models.Tag{Name: "q1"}, DocumentCount: 4}}, nil)

	Popular(req.Context(), slog.Default(), w, req, tp)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"document_count":4`)
	tp.AssertExpectations(t)
}

func TestPopular_Error(t *testing.T) {
	t.Parallel()

	tp := new(mockTags)
	req := httptest.NewRequest(http.MethodGet, "/api/tags/popular", nil)
	w := httptest.NewRecorder()

	tp.On("PopularTags", mock.Anything, 0).Return([]models.TagUsage(nil), errors.New("db down"))

	Popular(req.Context(), slog.Default(), w, req, tp)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	tp := new(mockTags)
	req := httptest.NewRequest(http.MethodGet, "/api/tags/t9", nil)
	w := httptest.NewRecorder()

	tp.On("TagByID", mock.Anything, "t9").Return((*models.Tag)(nil), models.ErrTagNotFound)

	GetByID(req.Context(), slog.Default(), w, req, "t9", tp)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "alice", Role: models.RoleViewer}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"created", nil, http.StatusCreated},
		{"duplicate", models.ErrTagExists, http.StatusConflict},
		{"invalid", models.ErrInvalidParams, http.StatusBadRequest},
		{"db", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tc := new(mockTags)
			req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"Finance","color":"#00ff00"}`))
			req = req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
			w := httptest.NewRecorder()

			var tag *models.Tag
			if tt.err == nil {
				tag = &models.Tag{ID: "t1", Name: "Finance"}
			}
			tc.On("CreateTag", mock.Anything, user, "Finance", mock.AnythingOfType("*string")).Return(tag, tt.err)

			Create(req.Context(), slog.Default(), w, req, tc)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreate_Unauthenticated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"x"}`))
	w := httptest.NewRecorder()

	Create(req.Context(), slog.Default(), w, req, new(mockTags))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
