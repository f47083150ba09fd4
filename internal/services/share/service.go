package shareservice

import (
	"context"
	"docmanager/internal/models"
	"errors"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "shareRegistry/"

// Registry keeps at most one active share per document and user.
type Registry struct {
	log   *slog.Logger
	repo  ShareRepository
	tx    Transactor
	clock func() time.Time
}

func New(log *slog.Logger, repo ShareRepository, tx Transactor) *Registry {
	return &Registry{
		log:   log,
		repo:  repo,
		tx:    tx,
		clock: time.Now,
	}
}

// ActiveShareFor returns models.ErrShareNotFound when the user holds no active share.
func (r *Registry) ActiveShareFor(ctx context.Context, docID string, userID string) (*models.Share, error) {
	op := pkg + "ActiveShareFor"

	log := r.log.With(slog.String("op", op))

	share, err := r.repo.ActiveShare(ctx, docID, userID, r.clock())
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			return nil, models.ErrShareNotFound
		}
		log.Error("failed to get active share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return share, nil
}

func (r *Registry) HasActiveShare(ctx context.Context, docID string, userID string) (bool, error) {
	_, err := r.ActiveShareFor(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GrantOrUpdate updates the share of the target in place, renewing it when it
// has expired, or creates one. The document row lock serializes concurrent
// grants for one document.
func (r *Registry) GrantOrUpdate(ctx context.Context, req models.ShareRequest, grantor string) (*models.Share, error) {
	op := pkg + "GrantOrUpdate"

	log := r.log.With(slog.String("op", op))

	log.Debug("attempting to grant share",
		slog.String("doc_id", req.DocumentID),
		slog.String("target_id", req.SharedWithUserID),
		slog.String("level", string(req.PermissionLevel)))

	var result *models.Share

	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.repo.LockDocument(ctx, req.DocumentID); err != nil {
			return err
		}

		now := r.clock()

		// An expired grant still holds the slot for the pair, so it is
		// renewed in place rather than shadowed by a new row.
		existing, err := r.repo.LatestGrant(ctx, req.DocumentID, req.SharedWithUserID)
		if err != nil && !errors.Is(err, models.ErrShareNotFound) {
			return err
		}

		if existing != nil {
			if !existing.IsActive(now) {
				existing.SharedBy = grantor
				existing.SharedAt = now
			}
			existing.PermissionLevel = req.PermissionLevel
			existing.ExpiresAt = req.ExpiresAt

			if err := r.repo.UpdateGrant(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		}

		share := &models.Share{
			ID:               uuid.NewV4().String(),
			DocumentID:       req.DocumentID,
			SharedWithUserID: req.SharedWithUserID,
			PermissionLevel:  req.PermissionLevel,
			SharedBy:         grantor,
			SharedAt:         now,
			ExpiresAt:        req.ExpiresAt,
		}

		if err := r.repo.CreateShare(ctx, share); err != nil {
			return err
		}

		result = share
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", req.DocumentID))
			return nil, models.ErrDocumentNotFound
		}
		if errors.Is(err, models.ErrInvalidParams) {
			log.Warn("invalid share target", slog.String("target_id", req.SharedWithUserID))
			return nil, models.ErrInvalidParams
		}
		log.Error("failed to grant share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("share granted successfully", slog.String("share_id", result.ID))

	return result, nil
}

// Revoke is a no-op for missing or already revoked shares.
func (r *Registry) Revoke(ctx context.Context, shareID string, revokedBy string) error {
	op := pkg + "Revoke"

	log := r.log.With(slog.String("op", op))

	revoked, err := r.repo.RevokeShare(ctx, shareID, revokedBy, r.clock())
	if err != nil {
		log.Error("failed to revoke share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !revoked {
		log.Debug("share already revoked or missing", slog.String("share_id", shareID))
	}

	return nil
}

func (r *Registry) ShareByID(ctx context.Context, shareID string) (*models.Share, error) {
	op := pkg + "ShareByID"

	log := r.log.With(slog.String("op", op))

	share, err := r.repo.ShareByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			return nil, models.ErrShareNotFound
		}
		log.Error("failed to get share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return share, nil
}

func (r *Registry) SharesByDocument(ctx context.Context, docID string) ([]*models.Share, error) {
	op := pkg + "SharesByDocument"

	log := r.log.With(slog.String("op", op))

	shares, err := r.repo.SharesByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list shares", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return shares, nil
}
