// Package jobs schedules background maintenance with robfig/cron.
package jobs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/robfig/cron/v3"
)

// Sweeper retries deletion of orphaned hosted images.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// OrphanSweepJob runs one sweep per cron tick.
type OrphanSweepJob struct {
	ctx     context.Context
	sweeper Sweeper
	logger  logging.Logger
}

func NewOrphanSweepJob(ctx context.Context, s Sweeper, l logging.Logger) *OrphanSweepJob {
	return &OrphanSweepJob{ctx: ctx, sweeper: s, logger: l.With("module", "orphan_sweep")}
}

// Run implements cron.Job.
func (j *OrphanSweepJob) Run() {
	if j.ctx.Err() != nil {
		return
	}
	j.logger.Debug(j.ctx, "orphan sweep started")

	n, err := j.sweeper.Sweep(j.ctx)
	if err != nil {
		j.logger.Warn(j.ctx, "orphan sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info(j.ctx, "orphaned images deleted", "count", n)
	}
}

// Scheduler owns the cron instance.
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
}

func NewScheduler(l logging.Logger) *Scheduler {
	// overlapping runs are skipped, a slow sweep never stacks up
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{cron: c, logger: l.With("module", "scheduler")}
}

// Add registers job under spec ("@every 15m", "*/5 * * * *", ...).
func (s *Scheduler) Add(spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// Run starts the scheduler and stops it when ctx is canceled, waiting for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info(ctx, "scheduler started", "jobs", s.Entries())

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info(context.WithoutCancel(ctx), "scheduler stopped")
}
