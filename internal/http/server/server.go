package server

import (
	"context"
	"docmanager/internal/config"
	"docmanager/internal/http/handlers/audit"
	"docmanager/internal/http/handlers/docs"
	"docmanager/internal/http/handlers/session"
	"docmanager/internal/http/handlers/shares"
	"docmanager/internal/http/handlers/tags"
	"docmanager/internal/http/handlers/user"
	"docmanager/internal/http/middleware"
	"docmanager/internal/models"
	utils "docmanager/internal/utils/http_errors"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

type Deps struct {
	Documents DocumentService
	Auth      AuthService
	Tags      TagService
	Audit     AuditService
	Users     UserService
	Metrics   Metrics
	MaxUpload int64
}

func StartServer(ctx context.Context, cfg *config.HTTPServer, log *slog.Logger, deps Deps) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      NewRouter(log, deps),
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func NewRouter(log *slog.Logger, deps Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	setupRoutes(r, log, deps)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})

	return r
}

func setupRoutes(r *mux.Router, log *slog.Logger, deps Deps) {
	doc := deps.Documents

	// POST session
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		session.Login(r.Context(), log, w, r, deps.Auth)
	}).Methods(http.MethodPost)

	// POST user, bootstrap token or Admin bearer
	register := r.PathPrefix("/api/users").Subrouter()
	register.Use(middleware.OptionalAuth(log, deps.Auth))
	register.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		user.Register(r.Context(), log, w, r, deps.Users)
	}).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()

	protected.Use(middleware.Auth(log, deps.Auth))

	// session
	protected.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		session.Me(r.Context(), log, w, r)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		session.Logout(r.Context(), log, w, r, middleware.BearerToken(r), deps.Auth)
	}).Methods(http.MethodPost)

	// documents, fixed paths before {id}
	protected.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		docs.Upload(r.Context(), log, w, r, doc, deps.MaxUpload)
	}).Methods(http.MethodPost)

	protected.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		docs.ListMine(r.Context(), log, w, r, doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/shared-with-me", func(w http.ResponseWriter, r *http.Request) {
		docs.ListSharedWithMe(r.Context(), log, w, r, doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/public", func(w http.ResponseWriter, r *http.Request) {
		docs.ListPublic(r.Context(), log, w, r, doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/search", func(w http.ResponseWriter, r *http.Request) {
		docs.Search(r.Context(), log, w, r, doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/share", func(w http.ResponseWriter, r *http.Request) {
		shares.Share(r.Context(), log, w, r, doc)
	}).Methods(http.MethodPost)

	protected.HandleFunc("/documents/shares/{shareId}", func(w http.ResponseWriter, r *http.Request) {
		shares.Revoke(r.Context(), log, w, r, mux.Vars(r)["shareId"], doc)
	}).Methods(http.MethodDelete)

	protected.HandleFunc("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.GetByID(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.HeadByID(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodHead)

	protected.HandleFunc("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.Update(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodPut)

	protected.HandleFunc("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.Delete(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodDelete)

	protected.HandleFunc("/documents/{id}/download", func(w http.ResponseWriter, r *http.Request) {
		docs.Download(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/documents/{id}/shares", func(w http.ResponseWriter, r *http.Request) {
		shares.ByDocument(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	// tags
	protected.HandleFunc("/tags", func(w http.ResponseWriter, r *http.Request) {
		tags.List(r.Context(), log, w, r, deps.Tags)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/tags", func(w http.ResponseWriter, r *http.Request) {
		tags.Create(r.Context(), log, w, r, deps.Tags)
	}).Methods(http.MethodPost)

	protected.HandleFunc("/tags/popular", func(w http.ResponseWriter, r *http.Request) {
		tags.Popular(r.Context(), log, w, r, deps.Tags)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		tags.GetByID(r.Context(), log, w, r, mux.Vars(r)["id"], deps.Tags)
	}).Methods(http.MethodGet)

	// audit, Admin only (enforced by the service)
	protected.HandleFunc("/audit/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		audit.ByUser(r.Context(), log, w, r, mux.Vars(r)["id"], deps.Audit)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/audit/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		audit.ByDocument(r.Context(), log, w, r, mux.Vars(r)["id"], deps.Audit)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/audit/actions/{type}", func(w http.ResponseWriter, r *http.Request) {
		audit.ByActionType(r.Context(), log, w, r, mux.Vars(r)["type"], deps.Audit)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/audit/range", func(w http.ResponseWriter, r *http.Request) {
		audit.ByDateRange(r.Context(), log, w, r, deps.Audit)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/audit/failed", func(w http.ResponseWriter, r *http.Request) {
		audit.Failed(r.Context(), log, w, r, deps.Audit)
	}).Methods(http.MethodGet)
}
