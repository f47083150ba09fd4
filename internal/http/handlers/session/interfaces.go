package session

import (
	"context"
	"docmanager/internal/models"
)

const pkg = "sessionHandler/"

type SessionCreator interface {
	Login(ctx context.Context, email string, password string) (*models.Session, error)
}

type SessionDeleter interface {
	Logout(ctx context.Context, token string) error
}
