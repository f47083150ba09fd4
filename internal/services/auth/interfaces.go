package authservice

import (
	"context"
	"docmanager/internal/jwt"
	"docmanager/internal/models"
)

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionStorer interface {
	SaveSession(ctx context.Context, sessionID string, userJSON string) error
	DeleteSession(ctx context.Context, sessionID string) error
	UserBySession(ctx context.Context, sessionID string) (string, error)
}

type TokenIssuer interface {
	Generate(user *models.User) (string, *jwt.Claims, error)
	Parse(token string) (*jwt.Claims, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}
