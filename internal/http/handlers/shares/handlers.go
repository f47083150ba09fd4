package shares

import (
	"context"
	"docmanager/internal/dto"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"docmanager/internal/validator"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const maxJSONBody = 1 << 20

func Share(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ds DocumentSharer) {
	op := pkg + "Share"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	var body dto.ShareRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if !validator.IsValidID(body.DocumentID) {
		log.Warn("malformed document id", slog.String("doc_id", body.DocumentID))
		utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		return
	}
	if !validator.IsValidID(body.SharedWithUserID) {
		log.Warn("malformed target user id", slog.String("target_id", body.SharedWithUserID))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	level, err := models.ParsePermissionLevel(body.PermissionLevel)
	if err != nil {
		log.Warn("invalid permission level", slog.String("level", body.PermissionLevel))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	share, err := ds.ShareDocument(ctx, requester, models.ShareRequest{
		DocumentID:       body.DocumentID,
		SharedWithUserID: body.SharedWithUserID,
		PermissionLevel:  level,
		ExpiresAt:        body.ExpiresAt,
	})
	if err != nil {
		writeError(log, w, err)
		return
	}

	if err := utils.WriteJSON(w, http.StatusCreated, share); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Revoke(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, shareID string, ds DocumentSharer) {
	op := pkg + "Revoke"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	if err := ds.RevokeShare(ctx, requester, shareID); err != nil {
		writeError(log, w, err)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, map[string]bool{shareID: true}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func ByDocument(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentSharer) {
	op := pkg + "ByDocument"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	shares, err := ds.DocumentShares(ctx, requester, docID)
	if err != nil {
		writeError(log, w, err)
		return
	}

	if shares == nil {
		shares = make([]*models.Share, 0)
	}

	if err := utils.WriteJSON(w, http.StatusOK, shares); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound), errors.Is(err, models.ErrAccessDenied):
		log.Warn("document not found or not accessible", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
	case errors.Is(err, models.ErrShareNotFound):
		log.Warn("share not found", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, models.ErrShareNotFound.Error())
	case errors.Is(err, models.ErrInvalidParams):
		log.Warn("invalid params", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
