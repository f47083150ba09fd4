package cachedocsrepo

import (
	"context"
	"docmanager/internal/cache/redis"
	"docmanager/internal/models"
	cacherepo "docmanager/internal/repositories/cache"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, ttl time.Duration) (*repository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.New(context.Background(), redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return New(client, ttl), mr
}

func contract() *models.Document {
	desc := "signed copy"
	modified := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	return &models.Document{
		ID:             "3f2b8c1e-6d4a-4e0b-9a57-1c2d3e4f5a6b",
		Title:          "Supplier Contract",
		Description:    &desc,
		FileName:       "contract.pdf",
		FilePath:       "alice/3f2b8c1e.pdf",
		FileSize:       20480,
		ContentType:    "application/pdf",
		AccessType:     models.AccessRestricted,
		OwnerID:        "alice",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		LastModifiedAt: &modified,
		Tags:           []models.Tag{{ID: "t1", Name: "legal", CreatedBy: "alice"}},
	}
}

func TestStoreDocument_ReadBack(t *testing.T) {
	t.Parallel()

	repo, mr := setup(t, time.Hour)
	ctx := context.Background()
	doc := contract()

	require.NoError(t, repo.StoreDocument(ctx, doc))

	raw, err := mr.Get("doc:" + doc.ID)
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "Supplier Contract", stored["title"])
	assert.Equal(t, string(models.AccessRestricted), stored["access_type"])
	assert.Equal(t, time.Hour, mr.TTL("doc:"+doc.ID))

	got, err := repo.Document(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Title, got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "signed copy", *got.Description)
	assert.Equal(t, doc.AccessType, got.AccessType)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.LastModifiedAt)
	assert.True(t, doc.LastModifiedAt.Equal(*got.LastModifiedAt))
	assert.Equal(t, []string{"legal"}, got.TagNames())
}

func TestDocument_MissIsNil(t *testing.T) {
	t.Parallel()

	repo, _ := setup(t, time.Hour)

	got, err := repo.Document(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestForget_AfterDelete(t *testing.T) {
	t.Parallel()

	repo, mr := setup(t, time.Hour)
	ctx := context.Background()

	doc := contract()
	other := contract()
	other.ID = "9e8d7c6b-5a49-4837-a261-0f1e2d3c4b5a"
	other.Title = "Renewal Terms"

	require.NoError(t, repo.StoreDocument(ctx, doc))
	require.NoError(t, repo.StoreDocument(ctx, other))

	require.NoError(t, repo.Forget(ctx, doc.ID))
	assert.False(t, mr.Exists("doc:"+doc.ID))

	got, err := repo.Document(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	kept, err := repo.Document(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "Renewal Terms", kept.Title)

	require.NoError(t, repo.Forget(ctx, doc.ID))
	require.NoError(t, repo.Forget(ctx))
}

func TestDocument_Expires(t *testing.T) {
	t.Parallel()

	repo, mr := setup(t, time.Minute)
	ctx := context.Background()
	doc := contract()

	require.NoError(t, repo.StoreDocument(ctx, doc))
	mr.FastForward(2 * time.Minute)

	got, err := repo.Document(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDocument_CorruptEntry(t *testing.T) {
	t.Parallel()

	repo, mr := setup(t, time.Hour)

	require.NoError(t, mr.Set("doc:broken", `{"id":`))

	got, err := repo.Document(context.Background(), "broken")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "doc:broken")
}

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) cacherepo.Result[string] {
	return m.Called(ctx, key).Get(0).(cacherepo.Result[string])
}

func (m *mockKV) Set(ctx context.Context, key string, value any, expiration time.Duration) cacherepo.Result[string] {
	return m.Called(ctx, key, value, expiration).Get(0).(cacherepo.Result[string])
}

func (m *mockKV) Del(ctx context.Context, keys ...string) cacherepo.Result[int64] {
	return m.Called(ctx, keys).Get(0).(cacherepo.Result[int64])
}

type failed[T any] struct {
	err error
}

func (f failed[T]) Err() error { return f.err }

func (f failed[T]) Result() (T, error) {
	var zero T
	return zero, f.err
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	down := errors.New("connection refused")
	kv := new(mockKV)
	repo := New(kv, time.Hour)
	doc := contract()

	kv.On("Get", ctx, "doc:"+doc.ID).Return(failed[string]{down})
	kv.On("Set", ctx, "doc:"+doc.ID, mock.AnythingOfType("string"), time.Hour).Return(failed[string]{down})
	kv.On("Del", ctx, []string{"doc:" + doc.ID}).Return(failed[int64]{down})

	_, err := repo.Document(ctx, doc.ID)
	assert.ErrorIs(t, err, down)
	assert.ErrorContains(t, err, pkg+"Document")

	assert.ErrorIs(t, repo.StoreDocument(ctx, doc), down)
	assert.ErrorIs(t, repo.Forget(ctx, doc.ID), down)

	kv.AssertExpectations(t)
}
