package docs

import (
	"context"
	"docmanager/internal/models"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// HeadByID answers with the document's file headers and no body.
func HeadByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dp DocumentProvider) {
	op := pkg + "HeadByID"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	view, err := dp.DocumentByID(ctx, requester, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) || errors.Is(err, models.ErrAccessDenied) {
			log.Warn("document not found or not accessible", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	doc := view.Document

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("X-File-Size", strconv.FormatInt(doc.FileSize, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if doc.LastModifiedAt != nil {
		w.Header().Set("Last-Modified", doc.LastModifiedAt.UTC().Format(http.TimeFormat))
	} else {
		w.Header().Set("Last-Modified", doc.CreatedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
}
