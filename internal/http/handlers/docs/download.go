package docs

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dd DocumentDownloader) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	doc, file, err := dd.DownloadDocument(ctx, requester, docID)
	if err != nil {
		writeError(log, w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Type", doc.ContentType)
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	}

	if _, err := io.Copy(w, file); err != nil {
		log.Error("failed to write file response", slog.String("error", err.Error()))
	}
}
