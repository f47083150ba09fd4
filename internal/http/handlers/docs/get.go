package docs

import (
	"context"
	"docmanager/internal/dto"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	parseutil "docmanager/internal/utils/parseLimit"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dp DocumentProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	view, err := dp.DocumentByID(ctx, requester, docID)
	if err != nil {
		writeError(log, w, err)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, dto.ToDocumentViewResponse(view)); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func ListMine(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "ListMine"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	page, err := dp.ListMine(ctx, requester, parseutil.ParsePage(r.URL.Query()))
	if err != nil {
		writeError(log, w, err)
		return
	}

	writePage(log, w, page)
}

func ListSharedWithMe(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "ListSharedWithMe"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	page, err := dp.ListSharedWithMe(ctx, requester, parseutil.ParsePage(r.URL.Query()))
	if err != nil {
		writeError(log, w, err)
		return
	}

	writePage(log, w, page)
}

func ListPublic(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "ListPublic"

	log = log.With(slog.String("op", op))

	page, err := dp.ListPublic(ctx, parseutil.ParsePage(r.URL.Query()))
	if err != nil {
		writeError(log, w, err)
		return
	}

	writePage(log, w, page)
}

func Search(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "Search"

	log = log.With(slog.String("op", op))

	requester, ok := requesterFrom(r)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	req, err := searchRequest(r.URL.Query())
	if err != nil {
		writeError(log, w, err)
		return
	}

	page, err := dp.SearchDocuments(ctx, requester, req)
	if err != nil {
		writeError(log, w, err)
		return
	}

	writePage(log, w, page)
}

// searchRequest keeps an explicit page size as sent; the service rejects
// sizes above the maximum instead of capping them.
func searchRequest(q url.Values) (models.SearchRequest, error) {
	req := models.SearchRequest{
		Term:        strings.TrimSpace(q.Get("term")),
		ContentType: strings.TrimSpace(q.Get("contentType")),
		Page:        models.Page{Number: parseutil.ParseLimit(q.Get("page"))},
	}

	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return req, models.ErrInvalidParams
		}
		req.Page.Size = size
	}

	for _, v := range q["tags"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Tags = append(req.Tags, name)
			}
		}
	}

	if raw := q.Get("accessType"); raw != "" {
		at, err := models.ParseAccessType(raw)
		if err != nil {
			return req, err
		}
		req.AccessType = &at
	}

	return req, nil
}

func writePage(log *slog.Logger, w http.ResponseWriter, page models.PageResult[*models.Document]) {
	if err := utils.WriteJSON(w, http.StatusOK, dto.ToDocumentPage(page)); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
