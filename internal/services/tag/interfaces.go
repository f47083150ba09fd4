package tagservice

import (
	"context"
	"docmanager/internal/models"
)

type TagRepository interface {
	CreateTag(ctx context.Context, tag *models.Tag) error
	EnsureTag(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	TagByName(ctx context.Context, name string) (*models.Tag, error)
	TagByID(ctx context.Context, id string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	PopularTags(ctx context.Context, limit int) ([]models.TagUsage, error)
}
