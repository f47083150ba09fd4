package docs

import (
	"context"
	"docmanager/internal/dto"
	"docmanager/internal/models"
	"docmanager/internal/repositories/storage"
	utils "docmanager/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

const multipartMemory = 10 << 20

// multipartOverhead leaves room for the meta part and boundaries.
const multipartOverhead = 1 << 20

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, du DocumentUploader, maxUpload int64) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			log.Warn("request body too large", slog.Int64("limit", mbe.Limit))
			utils.WriteJSONError(w, http.StatusRequestEntityTooLarge, models.ErrFileTooLarge.Error())
			return
		}
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var meta dto.UploadMeta

	if err := json.Unmarshal([]byte(r.FormValue("meta")), &meta); err != nil {
		log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
		return
	}

	var accessType models.AccessType
	if meta.AccessType != "" {
		parsed, err := models.ParseAccessType(meta.AccessType)
		if err != nil {
			log.Warn("invalid access type", slog.String("access_type", meta.AccessType))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		accessType = parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("file part is missing", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		log.Warn("empty file")
		utils.WriteJSONError(w, http.StatusBadRequest, "file is empty")
		return
	}

	req := models.UploadRequest{
		Title:       meta.Title,
		Description: meta.Description,
		AccessType:  accessType,
		FileName:    header.Filename,
		ContentType: partContentType(header.Header.Get("Content-Type"), header.Filename),
		Size:        header.Size,
		Tags:        meta.Tags,
	}

	doc, err := du.UploadDocument(ctx, requester, req, file)
	if err != nil {
		writeError(log, w, err)
		return
	}

	if err := utils.WriteJSON(w, http.StatusCreated, dto.ToDocumentResponse(doc)); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// partContentType trusts the declared type unless the client sent none or a
// generic one, in which case the file extension decides.
func partContentType(declared string, fileName string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || mediaType == "" || strings.EqualFold(mediaType, "application/octet-stream") {
		return storage.ContentTypeByPath(fileName)
	}
	return declared
}
