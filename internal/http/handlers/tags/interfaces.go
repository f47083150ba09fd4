package tags

import (
	"context"
	"docmanager/internal/models"
)

const pkg = "tagsHandler/"

type TagProvider interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	PopularTags(ctx context.Context, count int) ([]models.TagUsage, error)
	TagByID(ctx context.Context, id string) (*models.Tag, error)
}

type TagCreator interface {
	CreateTag(ctx context.Context, requester *models.User, name string, color *string) (*models.Tag, error)
}
