package documentrepo

import (
	"context"
	"database/sql"
	"docmanager/internal/dbs/postgres"
	"docmanager/internal/entities"
	"docmanager/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

const documentColumns = `
			d.id AS id,
			d.title AS title,
			d.description AS description,
			d.file_name AS file_name,
			d.file_path AS file_path,
			d.file_size AS file_size,
			d.content_type AS content_type,
			d.access_type AS access_type,
			d.owner_id AS owner_id,
			d.created_at AS created_at,
			d.last_modified_at AS last_modified_at,
			d.is_deleted AS is_deleted,
			d.deleted_at AS deleted_at`

// scopeFilter keeps soft-deleted rows out and adds a condition per scope
// field that is set.
func scopeFilter(scope models.DocumentScope) *postgres.Filter {
	f := &postgres.Filter{}
	f.Where("d.is_deleted = FALSE")

	if scope.OwnerID != "" {
		f.Where("d.owner_id = " + f.Arg(scope.OwnerID))
	}
	if scope.SharedWithUserID != "" {
		f.Where(`EXISTS (
			SELECT 1 FROM document_shares s
			WHERE s.document_id = d.id
			AND s.shared_with_user_id = ` + f.Arg(scope.SharedWithUserID) + `
			AND s.is_revoked = FALSE
			AND (s.expires_at IS NULL OR s.expires_at > ` + f.Arg(scope.Now) + `))`)
	}
	if scope.PublicOnly {
		f.Where("d.access_type = 'Public'")
	}

	return f
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO documents (id, title, description, file_name, file_path, file_size, content_type, access_type, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, doc.Title, entities.NullString(doc.Description), doc.FileName, doc.FilePath, doc.FileSize, doc.ContentType, string(doc.AccessType), doc.OwnerID, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	conn := postgres.Conn(ctx, r.db)

	rawDoc := entities.Document{}

	err := sqlx.GetContext(ctx, conn, &rawDoc,
		`SELECT`+documentColumns+`
		FROM documents d
		WHERE d.id = $1 AND d.is_deleted = FALSE`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs, err := r.withTags(ctx, conn, []entities.Document{rawDoc})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docs[0], nil
}

// ListDocuments returns one page of the scope and the scope's total size.
// A zero page size returns the whole scope.
func (r *repository) ListDocuments(ctx context.Context, scope models.DocumentScope, page models.Page) ([]*models.Document, int, error) {
	op := pkg + "ListDocuments"

	conn := postgres.Conn(ctx, r.db)

	filter := scopeFilter(scope)

	var total int

	err := sqlx.GetContext(ctx, conn, &total,
		`SELECT COUNT(*) FROM documents d`+filter.SQL(), filter.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + documentColumns + `
		FROM documents d` + filter.SQL() + `
		ORDER BY d.created_at DESC`

	if page.Size > 0 {
		query += ` LIMIT ` + filter.Arg(page.Size) + ` OFFSET ` + filter.Arg(page.Offset())
	}

	rawDocs := make([]entities.Document, 0)

	if err := sqlx.SelectContext(ctx, conn, &rawDocs, query, filter.Args()...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	docs, err := r.withTags(ctx, conn, rawDocs)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return docs, total, nil
}

// UpdateDocument writes the mutable metadata. The owner column is never touched.
func (r *repository) UpdateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "UpdateDocument"

	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE documents
		SET title = $2, description = $3, access_type = $4, last_modified_at = $5
		WHERE id = $1 AND is_deleted = FALSE`,
		doc.ID, doc.Title, entities.NullString(doc.Description), string(doc.AccessType), entities.NullTime(doc.LastModifiedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

func (r *repository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	op := pkg + "SoftDelete"

	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE documents
		SET is_deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND is_deleted = FALSE`,
		id, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

// ReplaceTags drops every tag assignment of the document and assigns tags.
func (r *repository) ReplaceTags(ctx context.Context, docID string, tags []models.Tag, assignedBy string, at time.Time) error {
	op := pkg + "ReplaceTags"

	conn := postgres.Conn(ctx, r.db)

	_, err := conn.ExecContext(ctx,
		`DELETE FROM document_tags WHERE document_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, tag := range tags {
		_, err = conn.ExecContext(ctx,
			`INSERT INTO document_tags (document_id, tag_id, assigned_by, assigned_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (document_id, tag_id) DO NOTHING`,
			docID, tag.ID, assignedBy, at)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// PendingBlobPurge lists soft-deleted documents deleted before the cutoff
// whose blobs have not been removed yet.
func (r *repository) PendingBlobPurge(ctx context.Context, deletedBefore time.Time, limit int) ([]*models.Document, error) {
	op := pkg + "PendingBlobPurge"

	rawDocs := make([]entities.Document, 0)

	err := sqlx.SelectContext(ctx, postgres.Conn(ctx, r.db), &rawDocs,
		`SELECT`+documentColumns+`
		FROM documents d
		WHERE d.is_deleted = TRUE
		AND d.blob_purged_at IS NULL
		AND d.deleted_at < $1
		ORDER BY d.deleted_at ASC
		LIMIT $2`,
		deletedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))
	for _, raw := range rawDocs {
		docs = append(docs, toModel(raw))
	}

	return docs, nil
}

func (r *repository) MarkBlobPurged(ctx context.Context, id string, at time.Time) error {
	op := pkg + "MarkBlobPurged"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE documents SET blob_purged_at = $2 WHERE id = $1`,
		id, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) withTags(ctx context.Context, conn sqlx.QueryerContext, rawDocs []entities.Document) ([]*models.Document, error) {
	docs := make([]*models.Document, 0, len(rawDocs))
	if len(rawDocs) == 0 {
		return docs, nil
	}

	ids := make([]string, 0, len(rawDocs))
	for _, raw := range rawDocs {
		ids = append(ids, raw.ID)
	}

	tags, err := r.tagsByDocuments(ctx, conn, ids)
	if err != nil {
		return nil, err
	}

	for _, raw := range rawDocs {
		doc := toModel(raw)
		doc.Tags = tags[raw.ID]
		if doc.Tags == nil {
			doc.Tags = make([]models.Tag, 0)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (r *repository) tagsByDocuments(ctx context.Context, conn sqlx.QueryerContext, docIDs []string) (map[string][]models.Tag, error) {
	op := pkg + "tagsByDocuments"

	rawTags := make([]entities.DocumentTag, 0)

	err := sqlx.SelectContext(ctx, conn, &rawTags,
		`SELECT
			dt.document_id AS document_id,
			t.id AS tag_id,
			t.name AS name,
			t.color AS color,
			t.created_by AS created_by,
			t.created_at AS created_at
		FROM document_tags dt
		INNER JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id = ANY($1)
		ORDER BY t.name ASC`,
		pq.Array(docIDs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags := make(map[string][]models.Tag, len(docIDs))
	for _, raw := range rawTags {
		tags[raw.DocumentID] = append(tags[raw.DocumentID], models.Tag{
			ID:        raw.TagID,
			Name:      raw.Name,
			Color:     entities.StringPtr(raw.Color),
			CreatedBy: raw.CreatedBy,
			CreatedAt: raw.CreatedAt,
		})
	}

	return tags, nil
}

func toModel(raw entities.Document) *models.Document {
	return &models.Document{
		ID:             raw.ID,
		Title:          raw.Title,
		Description:    entities.StringPtr(raw.Description),
		FileName:       raw.FileName,
		FilePath:       raw.FilePath,
		FileSize:       raw.FileSize,
		ContentType:    raw.ContentType,
		AccessType:     models.AccessType(raw.AccessType),
		OwnerID:        raw.OwnerID,
		CreatedAt:      raw.CreatedAt,
		LastModifiedAt: entities.TimePtr(raw.LastModifiedAt),
		IsDeleted:      raw.IsDeleted,
		DeletedAt:      entities.TimePtr(raw.DeletedAt),
	}
}

func expectAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}
	return nil
}
