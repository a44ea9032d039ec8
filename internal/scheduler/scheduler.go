// Package scheduler re-prices a market feed on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/akashjainn/propsage-sub000/internal/logger"
	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/provider"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

const (
	TriggerCron   = "cron"
	TriggerManual = "manual"

	repriceJobName = "reprice"
)

// BatchRunner prices a set of markets
type BatchRunner interface {
	PriceAll(ctx context.Context, reqs []*models.MarketRequest, trigger string) *service.BatchReport
}

// Sources groups the providers a run pulls from. Features and Evidence are optional.
type Sources struct {
	Quotes   provider.QuoteProvider
	Features provider.FeatureProvider
	Evidence provider.EvidenceProvider
}

// Scheduler manages scheduled re-pricing runs
type Scheduler struct {
	cron            *cron.Cron
	runner          BatchRunner
	sources         Sources
	logger          *logger.ScheduleLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	runTimeout      time.Duration
	gracefulTimeout time.Duration
	onReport        func(*service.BatchReport)
	lastRun         time.Time
	lastErr         error
}

// NewScheduler creates a new scheduler. Overlapping cron runs are skipped.
func NewScheduler(runner BatchRunner, sources Sources, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:          runner,
		sources:         sources,
		logger:          logger.NewScheduleLogger(log),
		jobIDs:          make([]cron.EntryID, 0),
		runTimeout:      4 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// OnReport registers a callback invoked with every completed run's report
func (s *Scheduler) OnReport(fn func(*service.BatchReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReport = fn
}

// SetRunTimeout bounds each scheduled run
func (s *Scheduler) SetRunTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.runTimeout = d
	}
}

// ScheduleRepricing schedules a full re-price of the feed
func (s *Scheduler) ScheduleRepricing(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		s.mu.RLock()
		timeout := s.runTimeout
		s.mu.RUnlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, _ = s.RunOnce(ctx, TriggerCron)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.LogJobScheduled(repriceJobName, cronExpression)
	return nil
}

// RunOnce fetches the feed and prices it immediately
func (s *Scheduler) RunOnce(ctx context.Context, trigger string) (*service.BatchReport, error) {
	start := time.Now()
	s.logger.LogRunStarted(repriceJobName, start)

	markets, err := provider.Assemble(ctx, s.sources.Quotes, s.sources.Features, s.sources.Evidence)
	if err != nil {
		s.logger.LogRunFinished(repriceJobName, time.Since(start), err)
		s.recordRun(start, err)
		return nil, err
	}
	metrics.UpdateMarketsInSnapshot(len(markets))

	report := s.runner.PriceAll(ctx, markets, trigger)
	s.logger.LogRunFinished(repriceJobName, time.Since(start), nil)
	s.recordRun(start, nil)

	s.mu.RLock()
	onReport := s.onReport
	s.mu.RUnlock()
	if onReport != nil {
		onReport(report)
	}
	return report, nil
}

func (s *Scheduler) recordRun(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = at
	s.lastErr = err
}

// Check reports whether the scheduler is running and its last run fetched the feed
func (s *Scheduler) Check(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return fmt.Errorf("scheduler is not running")
	}
	if s.lastErr != nil {
		return fmt.Errorf("last run at %s failed: %w", s.lastRun.Format(time.RFC3339), s.lastErr)
	}
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	return nil
}

// Stop stops the scheduler and waits for a running job, up to the graceful timeout
func (s *Scheduler) Stop(reason string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	done := s.cron.Stop().Done()
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.LogSchedulerStopped(reason)
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("timed out waiting for running job after %v", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
