package shareservice

import (
	"context"
	"docmanager/internal/models"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errUniqueViolation = errors.New("duplicate key value violates unique constraint \"document_shares_active_key\"")

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo keeps shares in memory. The mutex stands in for the row lock.
type memRepo struct {
	mu     sync.Mutex
	docs   map[string]bool
	shares map[string]*models.Share
}

func newMemRepo(docIDs ...string) *memRepo {
	r := &memRepo{docs: map[string]bool{}, shares: map[string]*models.Share{}}
	for _, id := range docIDs {
		r.docs[id] = true
	}
	return r
}

func (r *memRepo) LockDocument(_ context.Context, docID string) error {
	if !r.docs[docID] {
		return models.ErrDocumentNotFound
	}
	return nil
}

func (r *memRepo) ActiveShare(_ context.Context, docID, userID string, now time.Time) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *models.Share
	for _, s := range r.shares {
		if s.DocumentID == docID && s.SharedWithUserID == userID && s.IsActive(now) {
			if best == nil || s.SharedAt.After(best.SharedAt) {
				best = s
			}
		}
	}
	if best == nil {
		return nil, models.ErrShareNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *memRepo) LatestGrant(_ context.Context, docID, userID string) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	best := r.unrevoked(docID, userID)
	if best == nil {
		return nil, models.ErrShareNotFound
	}
	cp := *best
	return &cp, nil
}

// unrevoked must be called with mu held.
func (r *memRepo) unrevoked(docID, userID string) *models.Share {
	var best *models.Share
	for _, s := range r.shares {
		if s.DocumentID == docID && s.SharedWithUserID == userID && !s.IsRevoked {
			if best == nil || s.SharedAt.After(best.SharedAt) {
				best = s
			}
		}
	}
	return best
}

func (r *memRepo) ShareByID(_ context.Context, id string) (*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok {
		return nil, models.ErrShareNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) SharesByDocument(_ context.Context, docID string) ([]*models.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Share, 0)
	for _, s := range r.shares {
		if s.DocumentID == docID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SharedAt.After(out[j].SharedAt) })
	return out, nil
}

// CreateShare enforces the partial unique index on non-revoked rows.
func (r *memRepo) CreateShare(_ context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unrevoked(share.DocumentID, share.SharedWithUserID) != nil {
		return errUniqueViolation
	}

	cp := *share
	r.shares[share.ID] = &cp
	return nil
}

func (r *memRepo) UpdateGrant(_ context.Context, share *models.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[share.ID]
	if !ok || s.IsRevoked {
		return models.ErrShareNotFound
	}
	s.PermissionLevel = share.PermissionLevel
	s.ExpiresAt = share.ExpiresAt
	s.SharedBy = share.SharedBy
	s.SharedAt = share.SharedAt
	return nil
}

func (r *memRepo) RevokeShare(_ context.Context, id, revokedBy string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[id]
	if !ok || s.IsRevoked {
		return false, nil
	}
	s.IsRevoked = true
	s.RevokedAt = &at
	s.RevokedBy = &revokedBy
	return true, nil
}

func (r *memRepo) activeCount(docID, userID string, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.shares {
		if s.DocumentID == docID && s.SharedWithUserID == userID && s.IsActive(now) {
			n++
		}
	}
	return n
}

// lockingTx serializes units of work the way the document row lock does.
type lockingTx struct {
	mu sync.Mutex
}

func (l *lockingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

type mockShareRepo struct {
	mock.Mock
}

func (m *mockShareRepo) LockDocument(ctx context.Context, docID string) error {
	return m.Called(ctx, docID).Error(0)
}

func (m *mockShareRepo) ActiveShare(ctx context.Context, docID, userID string, now time.Time) (*models.Share, error) {
	args := m.Called(ctx, docID, userID, now)
	share, _ := args.Get(0).(*models.Share)
	return share, args.Error(1)
}

func (m *mockShareRepo) LatestGrant(ctx context.Context, docID, userID string) (*models.Share, error) {
	args := m.Called(ctx, docID, userID)
	share, _ := args.Get(0).(*models.Share)
	return share, args.Error(1)
}

func (m *mockShareRepo) ShareByID(ctx context.Context, id string) (*models.Share, error) {
	args := m.Called(ctx, id)
	share, _ := args.Get(0).(*models.Share)
	return share, args.Error(1)
}

func (m *mockShareRepo) SharesByDocument(ctx context.Context, docID string) ([]*models.Share, error) {
	args := m.Called(ctx, docID)
	shares, _ := args.Get(0).([]*models.Share)
	return shares, args.Error(1)
}

func (m *mockShareRepo) CreateShare(ctx context.Context, share *models.Share) error {
	return m.Called(ctx, share).Error(0)
}

func (m *mockShareRepo) UpdateGrant(ctx context.Context, share *models.Share) error {
	return m.Called(ctx, share).Error(0)
}

func (m *mockShareRepo) RevokeShare(ctx context.Context, id, revokedBy string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, revokedBy, at)
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGrantOrUpdate_ReshareUpdatesInPlace(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	first, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionView,
	}, "owner")
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour)
	second, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionEdit,
		ExpiresAt:        &expires,
	}, "owner")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.activeCount("doc1", "userX", time.Now()))

	active, err := reg.ActiveShareFor(ctx, "doc1", "userX")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionEdit, active.PermissionLevel)
	require.NotNil(t, active.ExpiresAt)
	assert.True(t, active.ExpiresAt.Equal(expires))
}

func TestGrantOrUpdate_ConcurrentGrantsKeepOneActive(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, &lockingTx{})

	levels := []models.PermissionLevel{models.PermissionView, models.PermissionEdit, models.PermissionFullControl}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(level models.PermissionLevel) {
			defer wg.Done()
			_, err := reg.GrantOrUpdate(context.Background(), models.ShareRequest{
				DocumentID:       "doc1",
				SharedWithUserID: "userX",
				PermissionLevel:  level,
			}, "owner")
			assert.NoError(t, err)
		}(levels[i%len(levels)])
	}
	wg.Wait()

	assert.Equal(t, 1, repo.activeCount("doc1", "userX", time.Now()))
}

func TestGrantOrUpdate_AfterRevokeCreatesNewShare(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	req := models.ShareRequest{DocumentID: "doc1", SharedWithUserID: "userX", PermissionLevel: models.PermissionView}

	first, err := reg.GrantOrUpdate(ctx, req, "owner")
	require.NoError(t, err)
	require.NoError(t, reg.Revoke(ctx, first.ID, "owner"))

	second, err := reg.GrantOrUpdate(ctx, req, "owner")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	shares, err := reg.SharesByDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Len(t, shares, 2)
}

func TestGrantOrUpdate_AfterExpiryRenewsShare(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	now := time.Now()
	reg.clock = func() time.Time { return now }

	expires := now.Add(time.Hour)
	first, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionView,
		ExpiresAt:        &expires,
	}, "owner")
	require.NoError(t, err)

	later := now.Add(2 * time.Hour)
	reg.clock = func() time.Time { return later }

	ok, err := reg.HasActiveShare(ctx, "doc1", "userX")
	require.NoError(t, err)
	require.False(t, ok)

	second, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionEdit,
	}, "manager")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.PermissionEdit, second.PermissionLevel)
	assert.Nil(t, second.ExpiresAt)
	assert.True(t, second.SharedAt.Equal(later))
	assert.Equal(t, "manager", second.SharedBy)

	active, err := reg.ActiveShareFor(ctx, "doc1", "userX")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionEdit, active.PermissionLevel)
	assert.Equal(t, 1, repo.activeCount("doc1", "userX", later))
}

func TestGrantOrUpdate_ActiveShareKeepsGrantStamp(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	now := time.Now()
	reg.clock = func() time.Time { return now }

	req := models.ShareRequest{DocumentID: "doc1", SharedWithUserID: "userX", PermissionLevel: models.PermissionView}
	first, err := reg.GrantOrUpdate(ctx, req, "owner")
	require.NoError(t, err)

	reg.clock = func() time.Time { return now.Add(time.Minute) }
	req.PermissionLevel = models.PermissionFullControl
	second, err := reg.GrantOrUpdate(ctx, req, "owner")
	require.NoError(t, err)

	assert.True(t, second.SharedAt.Equal(first.SharedAt))
	assert.Equal(t, models.PermissionFullControl, second.PermissionLevel)
}

func TestMemRepo_RejectsSecondUnrevokedShare(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	ctx := context.Background()

	share := &models.Share{ID: "s1", DocumentID: "doc1", SharedWithUserID: "userX", SharedAt: time.Now()}
	require.NoError(t, repo.CreateShare(ctx, share))

	dup := *share
	dup.ID = "s2"
	assert.ErrorIs(t, repo.CreateShare(ctx, &dup), errUniqueViolation)
}

func TestGrantOrUpdate_DocumentMissing(t *testing.T) {
	t.Parallel()

	reg := New(discardLogger(), newMemRepo(), passthroughTx{})

	share, err := reg.GrantOrUpdate(context.Background(), models.ShareRequest{
		DocumentID:       "ghost",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionView,
	}, "owner")

	assert.Nil(t, share)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestGrantOrUpdate_StoreFailure(t *testing.T) {
	t.Parallel()

	repo := new(mockShareRepo)
	reg := New(discardLogger(), repo, passthroughTx{})

	repo.On("LockDocument", mock.Anything, "doc1").Return(nil)
	repo.On("LatestGrant", mock.Anything, "doc1", "userX").Return(nil, models.ErrShareNotFound)
	repo.On("CreateShare", mock.Anything, mock.AnythingOfType("*models.Share")).Return(errors.New("insert failed"))

	share, err := reg.GrantOrUpdate(context.Background(), models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionView,
	}, "owner")

	assert.Nil(t, share)
	assert.ErrorIs(t, err, models.ErrInternal)
	repo.AssertExpectations(t)
}

func TestGrantOrUpdate_UnknownTarget(t *testing.T) {
	t.Parallel()

	repo := new(mockShareRepo)
	reg := New(discardLogger(), repo, passthroughTx{})

	repo.On("LockDocument", mock.Anything, "doc1").Return(nil)
	repo.On("LatestGrant", mock.Anything, "doc1", "ghost").Return(nil, models.ErrShareNotFound)
	repo.On("CreateShare", mock.Anything, mock.AnythingOfType("*models.Share")).Return(models.ErrInvalidParams)

	share, err := reg.GrantOrUpdate(context.Background(), models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "ghost",
		PermissionLevel:  models.PermissionView,
	}, "owner")

	assert.Nil(t, share)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.NotErrorIs(t, err, models.ErrInternal)
}

func TestRevoke_Idempotent(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	share, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionEdit,
	}, "owner")
	require.NoError(t, err)

	require.NoError(t, reg.Revoke(ctx, share.ID, "owner"))
	before, err := reg.ShareByID(ctx, share.ID)
	require.NoError(t, err)

	require.NoError(t, reg.Revoke(ctx, share.ID, "someone-else"))
	after, err := reg.ShareByID(ctx, share.ID)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.NoError(t, reg.Revoke(ctx, "missing", "owner"))

	ok, err := reg.HasActiveShare(ctx, "doc1", "userX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasActiveShare_ExpiredShare(t *testing.T) {
	t.Parallel()

	repo := newMemRepo("doc1")
	reg := New(discardLogger(), repo, passthroughTx{})
	ctx := context.Background()

	expires := time.Now().Add(time.Minute)
	_, err := reg.GrantOrUpdate(ctx, models.ShareRequest{
		DocumentID:       "doc1",
		SharedWithUserID: "userX",
		PermissionLevel:  models.PermissionView,
		ExpiresAt:        &expires,
	}, "owner")
	require.NoError(t, err)

	ok, err := reg.HasActiveShare(ctx, "doc1", "userX")
	require.NoError(t, err)
	assert.True(t, ok)

	reg.clock = func() time.Time { return expires.Add(time.Second) }

	ok, err = reg.HasActiveShare(ctx, "doc1", "userX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasActiveShare_StoreError(t *testing.T) {
	t.Parallel()

	repo := new(mockShareRepo)
	reg := New(discardLogger(), repo, passthroughTx{})

	repo.On("ActiveShare", mock.Anything, "doc1", "userX", mock.Anything).Return(nil, errors.New("timeout"))

	ok, err := reg.HasActiveShare(context.Background(), "doc1", "userX")
	assert.False(t, ok)
	assert.ErrorIs(t, err, models.ErrInternal)
}
