package docs

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dd DocumentDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	if err := dd.DeleteDocument(ctx, requester, docID); err != nil {
		writeError(log, w, err)
		return
	}

	response := map[string]bool{
		docID: true,
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
