package tagrepo

import (
	"context"
	"database/sql"
	"docmanager/internal/dbs/postgres"
	"docmanager/internal/entities"
	"docmanager/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "tagRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateTag(ctx context.Context, tag *models.Tag) error {
	op := pkg + "CreateTag"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO tags (id, name, color, created_by, created_at) VALUES ($1, $2, $3, $4, $5)`,
		tag.ID, tag.Name, entities.NullString(tag.Color), tag.CreatedBy, tag.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &models.UniqueConstraintError{
				Constraint: pgErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// EnsureTag inserts the tag unless one with the same name in any case exists
// and returns the stored row. The conflict is absorbed by the insert, so an
// enclosing transaction stays usable.
func (r *repository) EnsureTag(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	op := pkg + "EnsureTag"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO tags (id, name, color, created_by, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ((LOWER(name))) DO NOTHING`,
		tag.ID, tag.Name, entities.NullString(tag.Color), tag.CreatedBy, tag.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored, err := r.TagByName(ctx, tag.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stored, nil
}

// TagByName matches the name case-insensitively.
func (r *repository) TagByName(ctx context.Context, name string) (*models.Tag, error) {
	op := pkg + "TagByName"

	raw := entities.Tag{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &raw,
		`SELECT
			t.id AS id,
			t.name AS name,
			t.color AS color,
			t.created_by AS created_by,
			t.created_at AS created_at
		FROM tags t
		WHERE LOWER(t.name) = LOWER($1)`,
		name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTagNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

func (r *repository) TagByID(ctx context.Context, id string) (*models.Tag, error) {
	op := pkg + "TagByID"

	raw := entities.Tag{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &raw,
		`SELECT
			t.id AS id,
			t.name AS name,
			t.color AS color,
			t.created_by AS created_by,
			t.created_at AS created_at
		FROM tags t
		WHERE t.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTagNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

func (r *repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	op := pkg + "ListTags"

	rawTags := make([]entities.Tag, 0)

	err := sqlx.SelectContext(ctx, postgres.Conn(ctx, r.db), &rawTags,
		`SELECT
			t.id AS id,
			t.name AS name,
			t.color AS color,
			t.created_by AS created_by,
			t.created_at AS created_at
		FROM tags t
		ORDER BY t.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags := make([]models.Tag, 0, len(rawTags))
	for _, raw := range rawTags {
		tags = append(tags, *toModel(raw))
	}

	return tags, nil
}

// PopularTags ranks tags by the number of live documents carrying them.
func (r *repository) PopularTags(ctx context.Context, limit int) ([]models.TagUsage, error) {
	op := pkg + "PopularTags"

	rawUsage := make([]entities.TagUsage, 0)

	err := sqlx.SelectContext(ctx, postgres.Conn(ctx, r.db), &rawUsage,
		`SELECT
			t.id AS id,
			t.name AS name,
			t.color AS color,
			t.created_by AS created_by,
			t.created_at AS created_at,
			COUNT(d.id) AS document_count
		FROM tags t
		INNER JOIN document_tags dt ON dt.tag_id = t.id
		INNER JOIN documents d ON d.id = dt.document_id AND d.is_deleted = FALSE
		GROUP BY t.id, t.name, t.color, t.created_by, t.created_at
		ORDER BY document_count DESC, t.name ASC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	usage := make([]models.TagUsage, 0, len(rawUsage))
	for _, raw := range rawUsage {
		usage = append(usage, models.TagUsage{
			Tag:           *toModel(raw.Tag),
			DocumentCount: raw.DocumentCount,
		})
	}

	return usage, nil
}

func toModel(raw entities.Tag) *models.Tag {
	return &models.Tag{
		ID:        raw.ID,
		Name:      raw.Name,
		Color:     entities.StringPtr(raw.Color),
		CreatedBy: raw.CreatedBy,
		CreatedAt: raw.CreatedAt,
	}
}
