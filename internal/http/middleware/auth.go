package middleware

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"strings"
)

// Auth rejects requests without a valid bearer token.
func Auth(log *slog.Logger, identity Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log := log.With(slog.String("op", op))

			token := BearerToken(r)
			if token == "" {
				log.Debug("missing bearer token")
				utils.WriteJSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			requester, err := identity.UserByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed get user by token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusUnauthorized, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// passes the request through untouched otherwise.
func OptionalAuth(log *slog.Logger, identity Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			requester, err := identity.UserByToken(r.Context(), token)
			if err != nil {
				log.Debug("ignoring invalid bearer token", slog.String("op", pkg+"OptionalAuth"))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), models.UserContextKey, requester)))
		})
	}
}

func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(models.UserContextKey).(*models.User)
	return user, ok && user != nil
}
