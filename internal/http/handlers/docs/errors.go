package docs

import (
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"errors"
	"log/slog"
	"net/http"
)

// writeError maps service errors to responses. Access denials look exactly
// like missing documents so callers cannot tell which ids exist.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound), errors.Is(err, models.ErrAccessDenied):
		log.Warn("document not found or not accessible", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
	case errors.Is(err, models.ErrFileNotFound):
		log.Warn("stored file is missing", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusNotFound, models.ErrFileNotFound.Error())
	case errors.Is(err, models.ErrForbidden):
		log.Warn("operation forbidden", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
	case errors.Is(err, models.ErrInvalidParams):
		log.Warn("invalid params", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
	case errors.Is(err, models.ErrUnsupportedType):
		log.Warn("unsupported content type", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusUnsupportedMediaType, models.ErrUnsupportedType.Error())
	case errors.Is(err, models.ErrFileTooLarge):
		log.Warn("file too large", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusRequestEntityTooLarge, models.ErrFileTooLarge.Error())
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}

func requesterFrom(r *http.Request) (*models.User, bool) {
	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	return requester, ok && requester != nil
}
