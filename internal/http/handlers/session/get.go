package session

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

// Me returns the user the bearer token belongs to.
func Me(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	op := pkg + "Me"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, requester); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
