package app

import (
	"context"
	"docmanager/internal/cache/redis"
	"docmanager/internal/config"
	"docmanager/internal/dbs/postgres"
	"docmanager/internal/jobs"
	"docmanager/internal/jwt"
	"docmanager/internal/metrics"
	cachedocsrepo "docmanager/internal/repositories/cache/docs"
	cachesessionrepo "docmanager/internal/repositories/cache/session"
	auditrepo "docmanager/internal/repositories/db/audit"
	documentrepo "docmanager/internal/repositories/db/document"
	sharerepo "docmanager/internal/repositories/db/share"
	tagrepo "docmanager/internal/repositories/db/tag"
	userrepo "docmanager/internal/repositories/db/user"
	"docmanager/internal/repositories/storage"
	filestorage "docmanager/internal/repositories/storage/file"
	s3storage "docmanager/internal/repositories/storage/s3"
	auditservice "docmanager/internal/services/audit"
	authservice "docmanager/internal/services/auth"
	documentservice "docmanager/internal/services/document"
	shareservice "docmanager/internal/services/share"
	tagservice "docmanager/internal/services/tag"
	userservice "docmanager/internal/services/user"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	AuthService     *authservice.AuthService
	UserService     *userservice.UserService
	DocumentService *documentservice.DocumentService
	TagService      *tagservice.TagService
	AuditService    *auditservice.AuditService
	Metrics         *metrics.Metrics
	Scheduler       *jobs.Scheduler
	MaxUpload       int64

	closers []func() error
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	a := &App{MaxUpload: cfg.FileStorage.MaxSizeBytes}

	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		_ = a.Close()
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}
	a.closers = append(a.closers, cache.Close)

	blobs, err := newBlobStorage(ctx, cfg.FileStorage)
	if err != nil {
		log.Error("failed to init blob storage", "err", err)
		_ = a.Close()
		return nil, fmt.Errorf("failed to init blob storage: %w", err)
	}

	tokens, err := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to init token issuer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(registry)

	tx := postgres.NewTransactor(db)

	userRepo := userrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	shareRepo := sharerepo.NewRepository(db)
	tagRepo := tagrepo.NewRepository(db)
	auditRepo := auditrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, tokens.TTL())
	documentCacheRepo := cachedocsrepo.New(cache, cfg.Cache.DocumentsTTL)

	a.AuditService = auditservice.New(log, auditRepo)

	a.UserService = userservice.New(log, userRepo, userRepo, cfg.AdminToken)

	a.AuthService = authservice.New(log, a.UserService, sessionCacheRepo, tokens, a.AuditService)

	a.TagService = tagservice.New(log, tagRepo, cfg.Tags.PopularCacheSize, cfg.Tags.PopularCacheTTL)

	shareRegistry := shareservice.New(log, shareRepo, tx)

	a.DocumentService = documentservice.New(log, docRepo, shareRegistry, a.TagService, a.AuditService,
		blobs, documentCacheRepo, tx, a.Metrics)

	a.Scheduler = jobs.NewScheduler(log)
	sweep := jobs.NewBlobSweep(log, docRepo, blobs, a.Metrics, cfg.Jobs.BlobSweepGrace)
	if err := a.Scheduler.AddJob(sweep, cfg.Jobs.BlobSweepSpec); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to schedule blob sweep: %w", err)
	}

	return a, nil
}

func newBlobStorage(ctx context.Context, cfg config.FileStorage) (storage.BlobStorage, error) {
	switch cfg.Kind {
	case config.StorageKindS3:
		return s3storage.New(ctx, s3storage.Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
			MaxSize:      cfg.MaxSizeBytes,
		})
	default:
		return filestorage.New(cfg.Path, cfg.MaxSizeBytes)
	}
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
