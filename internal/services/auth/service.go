package authservice

import (
	"context"
	"docmanager/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const pkg = "authService/"

type AuthService struct {
	log           *slog.Logger
	userProvider  UserProvider
	sessionStorer SessionStorer
	tokens        TokenIssuer
	audit         AuditRecorder
}

func New(
	log *slog.Logger,
	userProvider UserProvider,
	sessionStorer SessionStorer,
	tokens TokenIssuer,
	audit AuditRecorder,
) *AuthService {
	return &AuthService{
		log:           log,
		userProvider:  userProvider,
		sessionStorer: sessionStorer,
		tokens:        tokens,
		audit:         audit,
	}
}

// Login checks the password and issues a token backed by a session. Unknown
// emails and wrong passwords both yield models.ErrInvalidCredentials.
func (a *AuthService) Login(ctx context.Context, email string, password string) (*models.Session, error) {
	op := pkg + "Login"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to login user")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		log.Warn("empty credentials")
		return nil, models.ErrInvalidParams
	}

	user, err := a.userProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("user not found", slog.String("error", models.ErrUserNotFound.Error()))
			return nil, models.ErrInvalidCredentials
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", slog.String("user_id", user.ID))
		a.record(ctx, log, user.ID, models.ActionLogin, false, "Failed login attempt")
		return nil, models.ErrInvalidCredentials
	}

	token, claims, err := a.tokens.Generate(user)
	if err != nil {
		log.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		log.Error("failed to marshal user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	err = a.sessionStorer.SaveSession(ctx, claims.ID, string(userJSON))
	if err != nil {
		log.Error("failed to store session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	a.record(ctx, log, user.ID, models.ActionLogin, true, "User logged in")

	log.Debug("user logged in successfully", slog.String("user_id", user.ID))

	return &models.Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// UserByToken resolves a bearer token to the user it was issued for. Tokens
// whose session was removed are rejected even before they expire.
func (a *AuthService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	op := pkg + "UserByToken"

	log := a.log.With(slog.String("op", op))

	claims, err := a.tokens.Parse(token)
	if err != nil {
		log.Warn("invalid token", slog.String("error", err.Error()))
		return nil, models.ErrInvalidCredentials
	}

	userJSON, err := a.sessionStorer.UserBySession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found", slog.String("session", claims.ID))
			return nil, models.ErrInvalidCredentials
		}
		log.Error("failed to get session", slog.String("session", claims.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	var user models.User

	err = json.Unmarshal([]byte(userJSON), &user)
	if err != nil {
		log.Error("failed to unmarshal user from json", slog.String("session", claims.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if user.ID != claims.Subject {
		log.Warn("session does not match token subject", slog.String("session", claims.ID))
		return nil, models.ErrInvalidCredentials
	}

	return &user, nil
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	op := pkg + "Logout"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to logout user")

	claims, err := a.tokens.Parse(token)
	if err != nil {
		log.Warn("invalid token", slog.String("error", err.Error()))
		return models.ErrInvalidCredentials
	}

	err = a.sessionStorer.DeleteSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found", slog.String("session", claims.ID))
			return models.ErrSessionNotFound
		}
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	a.record(ctx, log, claims.Subject, models.ActionLogout, true, "User logged out")

	log.Debug("user logged out successfully", slog.String("user_id", claims.Subject))

	return nil
}

func (a *AuthService) record(ctx context.Context, log *slog.Logger, userID string, actionType models.ActionType, success bool, details string) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       string(actionType),
		ActionType:   actionType,
		Details:      details,
		IsSuccessful: success,
	}
	if !success {
		reason := models.ErrInvalidCredentials.Error()
		entry.ErrorMessage = &reason
	}

	if err := a.audit.Record(ctx, entry); err != nil {
		log.Error("failed to record audit entry", slog.String("error", err.Error()))
	}
}
