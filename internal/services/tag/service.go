package tagservice

import (
	"context"
	"docmanager/internal/models"
	"docmanager/internal/validator"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	uuid "github.com/satori/go.uuid"
)

const pkg = "tagService/"

const DefaultPopularCount = 10

type TagService struct {
	log     *slog.Logger
	repo    TagRepository
	popular *expirable.LRU[int, []models.TagUsage]
}

func New(log *slog.Logger, repo TagRepository, popularCacheSize int, popularCacheTTL time.Duration) *TagService {
	return &TagService{
		log:     log,
		repo:    repo,
		popular: expirable.NewLRU[int, []models.TagUsage](popularCacheSize, nil, popularCacheTTL),
	}
}

// GetOrCreate resolves names to tags, reusing existing tags by case-insensitive
// name. Duplicate names in the input collapse to one tag.
func (s *TagService) GetOrCreate(ctx context.Context, names []string, userID string) ([]models.Tag, error) {
	op := pkg + "GetOrCreate"

	log := s.log.With(slog.String("op", op))

	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		tag, err := s.getOrCreateOne(ctx, name, userID)
		if err != nil {
			log.Error("failed to resolve tag", slog.String("tag", name), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		tags = append(tags, *tag)
	}

	return tags, nil
}

// getOrCreateOne never fails on a concurrent creator, so it can run inside
// the caller's transaction.
func (s *TagService) getOrCreateOne(ctx context.Context, name string, userID string) (*models.Tag, error) {
	tag, err := s.repo.TagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, models.ErrTagNotFound) {
		return nil, err
	}

	return s.repo.EnsureTag(ctx, &models.Tag{
		ID:        uuid.NewV4().String(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	})
}

// CreateTag fails with models.ErrTagExists when the name is taken in any case.
func (s *TagService) CreateTag(ctx context.Context, requester *models.User, name string, color *string) (*models.Tag, error) {
	op := pkg + "CreateTag"

	log := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)

	if !validator.IsValidTagName(name) || !validator.IsValidColor(color) {
		log.Warn("invalid tag params")
		return nil, models.ErrInvalidParams
	}

	if _, err := s.repo.TagByName(ctx, name); err == nil {
		log.Warn("tag already exists", slog.String("tag", name))
		return nil, models.ErrTagExists
	} else if !errors.Is(err, models.ErrTagNotFound) {
		log.Error("failed to look up tag", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	tag := &models.Tag{
		ID:        uuid.NewV4().String(),
		Name:      name,
		Color:     color,
		CreatedBy: requester.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("tag already exists", slog.String("constraint", uce.Constraint))
			return nil, models.ErrTagExists
		}
		log.Error("failed to create tag", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("tag created successfully", slog.String("tag_id", tag.ID))

	return tag, nil
}

func (s *TagService) TagByID(ctx context.Context, id string) (*models.Tag, error) {
	op := pkg + "TagByID"

	log := s.log.With(slog.String("op", op))

	tag, err := s.repo.TagByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrTagNotFound) {
			log.Warn("tag not found", slog.String("tag_id", id))
			return nil, models.ErrTagNotFound
		}
		log.Error("failed to get tag", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	op := pkg + "ListTags"

	log := s.log.With(slog.String("op", op))

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		log.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return tags, nil
}

// PopularTags is served from a short-lived in-process cache.
func (s *TagService) PopularTags(ctx context.Context, count int) ([]models.TagUsage, error) {
	op := pkg + "PopularTags"

	log := s.log.With(slog.String("op", op))

	if count <= 0 {
		count = DefaultPopularCount
	}
	count = min(count, models.MaxPageSize)

	if cached, ok := s.popular.Get(count); ok {
		return cached, nil
	}

	usage, err := s.repo.PopularTags(ctx, count)
	if err != nil {
		log.Error("failed to get popular tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	s.popular.Add(count, usage)

	return usage, nil
}
