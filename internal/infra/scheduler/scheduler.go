package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RoutineJobs is the slice of the routine service the scheduler drives.
type RoutineJobs interface {
	SweepActiveCompanies(ctx context.Context)
	FlagOverdueRoutines(ctx context.Context) error
}

// RoutineScheduler runs the daily materialization sweep and the overdue
// check. The sweep runs every day rather than on the 1st so a service that
// was down over a month rollover still catches up; materialization is
// idempotent, so the extra runs are no-ops.
type RoutineScheduler struct {
	cronEngine      *cron.Cron
	jobs            RoutineJobs
	logger          *logrus.Logger
	cronSpecSweep   string
	cronSpecOverdue string
}

func NewRoutineScheduler(jobs RoutineJobs, logger *logrus.Logger, cronSpecSweep, cronSpecOverdue string) *RoutineScheduler {
	return &RoutineScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // server's local time
		jobs:            jobs,
		logger:          logger,
		cronSpecSweep:   cronSpecSweep,
		cronSpecOverdue: cronSpecOverdue,
	}
}

func (s *RoutineScheduler) Start() {
	s.logger.Info("Starting routine scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, func() {
		s.logger.Info("Cron job triggered: materialization sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.jobs.SweepActiveCompanies(ctx)
	})
	if err != nil {
		s.logger.Fatalf("Could not add materialization sweep cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecOverdue, func() {
		s.logger.Info("Cron job triggered: overdue routine check")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.jobs.FlagOverdueRoutines(ctx); err != nil {
			s.logger.WithError(err).Error("Overdue routine check failed")
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add overdue check cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Routine scheduler started with jobs.")
}

func (s *RoutineScheduler) Stop() {
	s.logger.Info("Stopping routine scheduler...")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.logger.Info("Routine scheduler gracefully stopped.")
}
