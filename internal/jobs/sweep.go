package jobs

import (
	"context"
	"docmanager/internal/models"
	"fmt"
	"log/slog"
	"time"
)

const pkg = "jobs/"

const defaultSweepBatch = 100

type PurgeCandidates interface {
	PendingBlobPurge(ctx context.Context, deletedBefore time.Time, limit int) ([]*models.Document, error)
	MarkBlobPurged(ctx context.Context, id string, at time.Time) error
}

type BlobDeleter interface {
	Delete(ctx context.Context, path string) (bool, error)
}

type PurgeRecorder interface {
	ObserveBlobPurge(err error)
}

// BlobSweep removes blobs of soft-deleted documents that the delete path
// failed to clean up. Documents younger than grace are left alone.
type BlobSweep struct {
	log      *slog.Logger
	docs     PurgeCandidates
	blobs    BlobDeleter
	recorder PurgeRecorder
	grace    time.Duration
	batch    int
	clock    func() time.Time
}

func NewBlobSweep(log *slog.Logger, docs PurgeCandidates, blobs BlobDeleter, recorder PurgeRecorder, grace time.Duration) *BlobSweep {
	return &BlobSweep{
		log:      log,
		docs:     docs,
		blobs:    blobs,
		recorder: recorder,
		grace:    grace,
		batch:    defaultSweepBatch,
		clock:    time.Now,
	}
}

func (b *BlobSweep) Name() string {
	return "blob-sweep"
}

func (b *BlobSweep) Run(ctx context.Context) error {
	op := pkg + "BlobSweep.Run"

	log := b.log.With(slog.String("op", op))

	now := b.clock()

	docs, err := b.docs.PendingBlobPurge(ctx, now.Add(-b.grace), b.batch)
	if err != nil {
		log.Error("failed to list documents pending blob purge", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	purged := 0
	for _, doc := range docs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// A missing blob counts as purged.
		if _, err := b.blobs.Delete(ctx, doc.FilePath); err != nil {
			log.Warn("failed to delete blob", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
			b.recorder.ObserveBlobPurge(err)
			continue
		}

		if err := b.docs.MarkBlobPurged(ctx, doc.ID, now); err != nil {
			log.Error("failed to mark blob purged", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
			b.recorder.ObserveBlobPurge(err)
			continue
		}

		b.recorder.ObserveBlobPurge(nil)
		purged++
	}

	if len(docs) > 0 {
		log.Info("blob sweep done", slog.Int("candidates", len(docs)), slog.Int("purged", purged))
	}

	return nil
}
