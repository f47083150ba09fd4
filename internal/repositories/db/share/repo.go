package sharerepo

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
)

const pkg = "shareRepo/"

const shareColumns = `
			s.id AS id,
			s.document_id AS document_id,
			s.shared_with_user_id AS shared_with_user_id,
			s.permission_level AS permission_level,
			s.shared_by AS shared_by,
			s.shared_at AS shared_at,
			s.expires_at AS expires_at,
			s.is_revoked AS is_revoked,
			s.revoked_at AS revoked_at,
			s.revoked_by AS revoked_by`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// LockDocument takes a row lock on the live document until the surrounding
// transaction ends. Share writes for one document are serialized on it.
func (r *repository) LockDocument(ctx context.Context, docID string) error {
	op := pkg + "LockDocument"

	var id string

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &id,
		`SELECT id FROM documents WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`,
		docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ActiveShare returns the newest active share of the document for the user.
func (r *repository) ActiveShare(ctx context.Context, docID string, userID string, now time.Time) (*models.Share, error) {
	op := pkg + "ActiveShare"

	raw := entities.Share{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &raw,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.document_id = $1
		AND s.shared_with_user_id = $2
		AND s.is_revoked = FALSE
		AND (s.expires_at IS NULL OR s.expires_at > $3)
		ORDER BY s.shared_at DESC
		LIMIT 1`,
		docID, userID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

// LatestGrant returns the newest non-revoked share whether or not it has
// expired. That row holds the single-active-share slot for the pair.
func (r *repository) LatestGrant(ctx context.Context, docID string, userID string) (*models.Share, error) {
	op := pkg + "LatestGrant"

	raw := entities.Share{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &raw,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.document_id = $1
		AND s.shared_with_user_id = $2
		AND s.is_revoked = FALSE
		ORDER BY s.shared_at DESC
		LIMIT 1`,
		docID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

func (r *repository) ShareByID(ctx context.Context, id string) (*models.Share, error) {
	op := pkg + "ShareByID"

	raw := entities.Share{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &raw,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(raw), nil
}

func (r *repository) SharesByDocument(ctx context.Context, docID string) ([]*models.Share, error) {
	op := pkg + "SharesByDocument"

	rawShares := make([]entities.Share, 0)

	err := sqlx.SelectContext(ctx, postgres.Conn(ctx, r.db), &rawShares,
		`SELECT`+shareColumns+`
		FROM document_shares s
		WHERE s.document_id = $1
		ORDER BY s.shared_at DESC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shares := make([]*models.Share, 0, len(rawShares))
	for _, raw := range rawShares {
		shares = append(shares, toModel(raw))
	}

	return shares, nil
}

func (r *repository) CreateShare(ctx context.Context, share *models.Share) error {
	op := pkg + "CreateShare"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO document_shares (id, document_id, shared_with_user_id, permission_level, shared_by, shared_at, expires_at, is_revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)`,
		share.ID, share.DocumentID, share.SharedWithUserID, string(share.PermissionLevel), share.SharedBy, share.SharedAt, entities.NullTime(share.ExpiresAt))
	if err != nil {
		// unknown or malformed target user
		if postgres.IsInvalidInput(err) || postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdateGrant rewrites level, expiry and grant stamp of a non-revoked share.
func (r *repository) UpdateGrant(ctx context.Context, share *models.Share) error {
	op := pkg + "UpdateGrant"

	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE document_shares
		SET permission_level = $2, expires_at = $3, shared_by = $4, shared_at = $5
		WHERE id = $1 AND is_revoked = FALSE`,
		share.ID, string(share.PermissionLevel), entities.NullTime(share.ExpiresAt), share.SharedBy, share.SharedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrShareNotFound)
	}

	return nil
}

// RevokeShare reports false when the share is missing or already revoked.
func (r *repository) RevokeShare(ctx context.Context, id string, revokedBy string, at time.Time) (bool, error) {
	op := pkg + "RevokeShare"

	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE document_shares
		SET is_revoked = TRUE, revoked_at = $2, revoked_by = $3
		WHERE id = $1 AND is_revoked = FALSE`,
		id, at, revokedBy)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func toModel(raw entities.Share) *models.Share {
	return &models.Share{
		ID:               raw.ID,
		DocumentID:       raw.DocumentID,
		SharedWithUserID: raw.SharedWithUserID,
		PermissionLevel:  models.PermissionLevel(raw.PermissionLevel),
		SharedBy:         raw.SharedBy,
		SharedAt:         raw.SharedAt,
		ExpiresAt:        entities.TimePtr(raw.ExpiresAt),
		IsRevoked:        raw.IsRevoked,
		RevokedAt:        entities.TimePtr(raw.RevokedAt),
		RevokedBy:        entities.StringPtr(raw.RevokedBy),
	}
}
