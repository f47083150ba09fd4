package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	log     *slog.Logger
	cron    *cron.Cron
	entries map[string]cron.EntryID
	ctx     context.Context
}

func NewScheduler(log *slog.Logger) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		log:     log,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

func (s *Scheduler) AddJob(job Job, spec string) error {
	log := s.log.With(slog.String("job", job.Name()), slog.String("spec", spec))

	entryID, err := s.cron.AddFunc(spec, s.wrap(job, log))
	if err != nil {
		log.Error("failed to schedule job", slog.String("error", err.Error()))
		return err
	}
	s.entries[job.Name()] = entryID

	log.Info("job scheduled")

	return nil
}

// Start runs jobs with ctx until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) wrap(job Job, log *slog.Logger) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			log.Info("job skipped, still running")
			return
		}
		defer running.Store(false)

		start := time.Now()
		log.Debug("job started")

		if err := job.Run(s.ctx); err != nil {
			log.Error("job failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
			return
		}

		log.Debug("job finished", slog.Duration("duration", time.Since(start)))
	}
}
