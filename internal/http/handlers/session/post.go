package session

import (
	"context"
	"docmanager/internal/dto"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Login(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sc SessionCreator) {
	op := pkg + "Login"

	log = log.With(slog.String("op", op))

	var body dto.LoginRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	session, err := sc.Login(ctx, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid login params")
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		case errors.Is(err, models.ErrInvalidCredentials):
			log.Warn("invalid credentials")
			utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
		default:
			log.Error("failed to login", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, session); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// Logout revokes the bearer token. An already revoked session still answers OK.
func Logout(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, sd SessionDeleter) {
	op := pkg + "Logout"

	log = log.With(slog.String("op", op))

	err := sd.Logout(ctx, token)
	if err != nil && !errors.Is(err, models.ErrSessionNotFound) {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Warn("logout with invalid token")
			utils.WriteJSONError(w, http.StatusUnauthorized, "token is invalid")
			return
		}
		log.Error("failed to delete session", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, map[string]bool{"logged_out": true}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
