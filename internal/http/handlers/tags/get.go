package tags

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	parseutil "docmanager/internal/utils/parseLimit"
	"errors"
	"log/slog"
	"net/http"
)

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, tp TagProvider) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	tags, err := tp.ListTags(ctx)
	if err != nil {
		log.Error("failed to list tags", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, tags); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// Popular reads the optional count parameter; zero means the service default.
func Popular(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, tp TagProvider) {
	op := pkg + "Popular"

	log = log.With(slog.String("op", op))

	usage, err := tp.PopularTags(ctx, parseutil.ParseLimit(r.URL.Query().Get("count")))
	if err != nil {
		log.Error("failed to get popular tags", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, usage); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, tagID string, tp TagProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	tag, err := tp.TagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, models.ErrTagNotFound) {
			log.Warn("tag not found", slog.String("tag_id", tagID))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrTagNotFound.Error())
			return
		}
		log.Error("failed to get tag", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, tag); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
