package sharerepo

import (
	"context"
	"docmanager/internal/models"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shareCols = []string{
	"id", "document_id", "shared_with_user_id", "permission_level", "shared_by",
	"shared_at", "expires_at", "is_revoked", "revoked_at", "revoked_by",
}

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, NewRepository(sqlxDB)
}

func TestLockDocument(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM documents WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`)).
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc1"))

	mock.ExpectQuery("FOR UPDATE").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.NoError(t, repo.LockDocument(context.Background(), "doc1"))
	assert.ErrorIs(t, repo.LockDocument(context.Background(), "gone"), models.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveShare_Found(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	expires := now.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.shared_at DESC`)).
		WithArgs("doc1", "user2", now).
		WillReturnRows(sqlmock.NewRows(shareCols).AddRow(
			"s1", "doc1", "user2", "Edit", "user1", now, expires, false, nil, nil))

	share, err := repo.ActiveShare(context.Background(), "doc1", "user2", now)
	require.NoError(t, err)

	assert.Equal(t, "s1", share.ID)
	assert.Equal(t, models.PermissionEdit, share.PermissionLevel)
	require.NotNil(t, share.ExpiresAt)
	assert.True(t, share.IsActive(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveShare_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery("FROM document_shares s").
		WithArgs("doc1", "user2", now).
		WillReturnRows(sqlmock.NewRows(shareCols))

	share, err := repo.ActiveShare(context.Background(), "doc1", "user2", now)
	assert.Nil(t, share)
	assert.ErrorIs(t, err, models.ErrShareNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShare(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	share := &models.Share{
		ID:               "s1",
		DocumentID:       "doc1",
		SharedWithUserID: "user2",
		PermissionLevel:  models.PermissionView,
		SharedBy:         "user1",
		SharedAt:         time.Now(),
	}

	mock.ExpectExec("INSERT INTO document_shares").
		WithArgs("s1", "doc1", "user2", "View", "user1", share.SharedAt, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.CreateShare(context.Background(), share))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGrant_Revoked(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	share := &models.Share{ID: "s1", PermissionLevel: models.PermissionFullControl, SharedBy: "user1", SharedAt: now}

	mock.ExpectExec(regexp.QuoteMeta(`SET permission_level = $2, expires_at = $3, shared_by = $4, shared_at = $5`)).
		WithArgs("s1", "FullControl", nil, "user1", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateGrant(context.Background(), share)
	assert.ErrorIs(t, err, models.ErrShareNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGrant_RenewsExpiry(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	expires := now.Add(time.Hour)
	share := &models.Share{ID: "s1", PermissionLevel: models.PermissionEdit, SharedBy: "user1", SharedAt: now, ExpiresAt: &expires}

	mock.ExpectExec("UPDATE document_shares").
		WithArgs("s1", "Edit", expires, "user1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateGrant(context.Background(), share))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestGrant_IgnoresExpiry(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	expired := now.Add(-time.Hour)

	mock.ExpectQuery(`(?s)AND s.is_revoked = FALSE\s+ORDER BY s.shared_at DESC`).
		WithArgs("doc1", "user2").
		WillReturnRows(sqlmock.NewRows(shareCols).AddRow(
			"s1", "doc1", "user2", "View", "user1", now.Add(-2*time.Hour), expired, false, nil, nil))

	mock.ExpectQuery("FROM document_shares s").
		WithArgs("doc1", "user3").
		WillReturnRows(sqlmock.NewRows(shareCols))

	share, err := repo.LatestGrant(context.Background(), "doc1", "user2")
	require.NoError(t, err)
	assert.Equal(t, "s1", share.ID)
	assert.False(t, share.IsActive(now))

	_, err = repo.LatestGrant(context.Background(), "doc1", "user3")
	assert.ErrorIs(t, err, models.ErrShareNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeShare(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`SET is_revoked = TRUE, revoked_at = $2, revoked_by = $3`)).
		WithArgs("s1", at, "user1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE document_shares").
		WithArgs("s1", at, "user1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE document_shares").
		WithArgs("s2", at, "user1").
		WillReturnError(errors.New("conn reset"))

	revoked, err := repo.RevokeShare(context.Background(), "s1", "user1", at)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.RevokeShare(context.Background(), "s1", "user1", at)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = repo.RevokeShare(context.Background(), "s2", "user1", at)
	assert.ErrorContains(t, err, "RevokeShare")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharesByDocument(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.document_id = $1`)).
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow("s2", "doc1", "user3", "View", "user1", now, nil, false, nil, nil).
			AddRow("s1", "doc1", "user2", "Edit", "user1", now.Add(-time.Hour), nil, true, now, "user1"))

	shares, err := repo.SharesByDocument(context.Background(), "doc1")
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.True(t, shares[1].IsRevoked)
	require.NotNil(t, shares[1].RevokedBy)
	assert.Equal(t, "user1", *shares[1].RevokedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShare_UnknownTarget(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	share := &models.Share{ID: "s1", DocumentID: "doc1", SharedWithUserID: "ghost", PermissionLevel: models.PermissionView, SharedAt: time.Now()}

	mock.ExpectExec("INSERT INTO document_shares").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "document_shares_shared_with_user_id_fkey"})
	mock.ExpectExec("INSERT INTO document_shares").
		WillReturnError(&pq.Error{Code: "22P02"})

	assert.ErrorIs(t, repo.CreateShare(context.Background(), share), models.ErrInvalidParams)
	assert.ErrorIs(t, repo.CreateShare(context.Background(), share), models.ErrInvalidParams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareByID_MalformedID(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery("WHERE s.id = \\$1").
		WithArgs("s1").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err := repo.ShareByID(context.Background(), "s1")
	assert.ErrorIs(t, err, models.ErrShareNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
