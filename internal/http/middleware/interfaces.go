package middleware

import (
	"context"
	"docmanager/internal/models"
)

const pkg = "middleware/"

type Identity interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
