package audit

import (
	"context"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	parseutil "docmanager/internal/utils/parseLimit"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

func ByUser(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, userID string, aq AuditQuerier) {
	serve(log, w, r, "ByUser", func(requester *models.User) ([]*models.AuditLog, error) {
		return aq.ByUser(ctx, requester, userID, count(r))
	})
}

func ByDocument(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, aq AuditQuerier) {
	serve(log, w, r, "ByDocument", func(requester *models.User) ([]*models.AuditLog, error) {
		return aq.ByDocument(ctx, requester, docID)
	})
}

func ByActionType(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, actionType string, aq AuditQuerier) {
	serve(log, w, r, "ByActionType", func(requester *models.User) ([]*models.AuditLog, error) {
		return aq.ByActionType(ctx, requester, models.ActionType(actionType), count(r))
	})
}

// ByDateRange expects RFC 3339 from and to parameters.
func ByDateRange(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, aq AuditQuerier) {
	serve(log, w, r, "ByDateRange", func(requester *models.User) ([]*models.AuditLog, error) {
		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		if err != nil {
			return nil, models.ErrInvalidParams
		}
		to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
		if err != nil {
			return nil, models.ErrInvalidParams
		}
		return aq.ByDateRange(ctx, requester, from, to)
	})
}

func Failed(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, aq AuditQuerier) {
	serve(log, w, r, "Failed", func(requester *models.User) ([]*models.AuditLog, error) {
		return aq.Failed(ctx, requester, count(r))
	})
}

func count(r *http.Request) int {
	if c := parseutil.ParseLimit(r.URL.Query().Get("count")); c > 0 {
		return c
	}
	return defaultCount
}

func serve(log *slog.Logger, w http.ResponseWriter, r *http.Request, name string, query func(requester *models.User) ([]*models.AuditLog, error)) {
	op := pkg + name

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok || requester == nil {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusUnauthorized, models.ErrForbidden.Error())
		return
	}

	logs, err := query(requester)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("audit access forbidden", slog.String("user_id", requester.ID))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid audit query")
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		default:
			log.Error("failed to query audit log", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	if logs == nil {
		logs = make([]*models.AuditLog, 0)
	}

	if err := utils.WriteJSON(w, http.StatusOK, logs); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
