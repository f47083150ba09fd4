package user

import (
	"context"
	"docmanager/internal/models"
)

const pkg = "userHandler/"

const AdminTokenHeader = "X-Admin-Token"

type UserRegistrar interface {
	Register(ctx context.Context, requester *models.User, adminToken string, req models.RegisterRequest) (*models.User, error)
}
