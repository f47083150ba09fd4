package docs

import (
	"context"
	"docmanager/internal/dto"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"encoding/json"
	"log/slog"
	"net/http"
)

const maxJSONBody = 1 << 20

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, du DocumentUpdater) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	var body dto.UpdateDocumentRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	req := models.UpdateRequest{
		Title:            body.Title,
		Description:      body.Description.Value,
		ClearDescription: body.Description.Null(),
		Tags:             body.Tags,
	}

	if body.AccessType != nil {
		at, err := models.ParseAccessType(*body.AccessType)
		if err != nil {
			log.Warn("invalid access type", slog.String("access_type", *body.AccessType))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		req.AccessType = &at
	}

	doc, err := du.UpdateDocument(ctx, requester, docID, req)
	if err != nil {
		writeError(log, w, err)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, dto.ToDocumentResponse(doc)); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
