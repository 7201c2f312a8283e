// Package scheduler runs periodic maintenance jobs inside the worker process.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cerebrin.app/backend/common/logger"
	"github.com/robfig/cron/v3"
)

const (
	EveryMinute = "* * * * *"
	Hourly      = "0 * * * *"

	defaultJobTimeout = 2 * time.Minute
)

// Job is one maintenance pass. It reports how many rows it touched.
type Job func(ctx context.Context) (int64, error)

type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	jobTimeout time.Duration
}

func New(jobTimeout time.Duration) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:        ctx,
		cancel:     cancel,
		jobTimeout: jobTimeout,
	}
}

// Add registers job under name on a five-field cron spec.
func (s *Scheduler) Add(spec, name string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunJob(name, job) }); err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	return nil
}

// RunJob executes a job once with the scheduler's timeout and logging.
func (s *Scheduler) RunJob(name string, job Job) {
	ctx := logger.WithLogFields(s.ctx, logger.LogFields{Component: "cerebrin.scheduler." + name})
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "scheduled job completed",
			"job", name,
			"affected", n,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels in-flight jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Maintenance holds the periodic cleanup operations.
type Maintenance struct {
	ExpireAgentRequests   Job
	ExpireInvitations     Job
	DeleteExpiredSessions Job
}

// RegisterMaintenance schedules request expiry every minute and invitation
// and session cleanup hourly. Nil jobs are skipped.
func (s *Scheduler) RegisterMaintenance(m Maintenance) error {
	jobs := []struct {
		spec string
		name string
		job  Job
	}{
		{EveryMinute, "expire_agent_requests", m.ExpireAgentRequests},
		{Hourly, "expire_invitations", m.ExpireInvitations},
		{Hourly, "delete_expired_sessions", m.DeleteExpiredSessions},
	}
	for _, j := range jobs {
		if j.job == nil {
			continue
		}
		if err := s.Add(j.spec, j.name, j.job); err != nil {
			return err
		}
	}
	return nil
}
