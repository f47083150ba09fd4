package tags

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

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, tc TagCreator) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	var body dto.CreateTagRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	tag, err := tc.CreateTag(ctx, requester, body.Name, body.Color)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTagExists):
			log.Warn("tag already exists", slog.String("name", body.Name))
			utils.WriteJSONError(w, http.StatusConflict, models.ErrTagExists.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid tag params")
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		default:
			log.Error("failed to create tag", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	if err := utils.WriteJSON(w, http.StatusCreated, tag); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
