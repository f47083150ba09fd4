package tagrepo

import (
	"context"
	"docmanager/internal/models"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagCols = []string{"id", "name", "color", "created_by", "created_at"}

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, NewRepository(sqlxDB)
}

func TestCreateTag_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	tag := &models.Tag{ID: "t1", Name: "Invoice", CreatedBy: "user1", CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO tags").
		WithArgs("t1", "Invoice", nil, "user1", tag.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.CreateTag(context.Background(), tag))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTag_UniqueViolation(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO tags").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tags_name_lower_key"})

	err := repo.CreateTag(context.Background(), &models.Tag{ID: "t2", Name: "invoice"})

	var uce *models.UniqueConstraintError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "tags_name_lower_key", uce.Constraint)
	assert.ErrorIs(t, err, models.ErrUNIQUEConstraintFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTag_ExistingNameKeepsStoredRow(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	created := time.Now()
	tag := &models.Tag{ID: "t2", Name: "invoice", CreatedBy: "user2", CreatedAt: created}

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ((LOWER(name))) DO NOTHING`)).
		WithArgs("t2", "invoice", nil, "user2", created).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(t.name) = LOWER($1)`)).
		WithArgs("invoice").
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow("t1", "Invoice", nil, "user1", created))

	stored, err := repo.EnsureTag(context.Background(), tag)
	require.NoError(t, err)
	assert.Equal(t, "t1", stored.ID)
	assert.Equal(t, "Invoice", stored.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagByName_CaseInsensitive(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(t.name) = LOWER($1)`)).
		WithArgs("INVOICE").
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow("t1", "Invoice", "#ff0000", "user1", time.Now()))

	tag, err := repo.TagByName(context.Background(), "INVOICE")
	require.NoError(t, err)
	assert.Equal(t, "Invoice", tag.Name)
	require.NotNil(t, tag.Color)
	assert.Equal(t, "#ff0000", *tag.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.id = $1`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(tagCols))

	tag, err := repo.TagByID(context.Background(), "nope")
	assert.Nil(t, tag)
	assert.ErrorIs(t, err, models.ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTags(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.name ASC`)).
		WillReturnRows(sqlmock.NewRows(tagCols).
			AddRow("t1", "Budget", nil, "user1", now).
			AddRow("t2", "Invoice", nil, "user2", now))

	tags, err := repo.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, "Budget", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPopularTags(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY document_count DESC, t.name ASC`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(append(tagCols, "document_count")).
			AddRow("t2", "Invoice", nil, "user2", now, 7).
			AddRow("t1", "Budget", nil, "user1", now, 2))

	usage, err := repo.PopularTags(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "Invoice", usage[0].Tag.Name)
	assert.Equal(t, 7, usage[0].DocumentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
