// Package scheduler runs the recurring dataset sync and retraining jobs.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. The context carries the per-run timeout.
type Job func(ctx context.Context) error

// Scheduler manages the recurring ingestion and retraining jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. All schedules run in UTC.
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      30 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleDatasetSync schedules the recurring dataset ingestion job
func (s *Scheduler) ScheduleDatasetSync(cronExpression string, job Job) error {
	return s.schedule("dataset sync", cronExpression, job)
}

// ScheduleRetrain schedules the recurring retraining job
func (s *Scheduler) ScheduleRetrain(cronExpression string, job Job) error {
	return s.schedule("retrain", cronExpression, job)
}

func (s *Scheduler) schedule(name, cronExpression string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if job == nil {
		return fmt.Errorf("job is required")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		s.logger.Printf("Starting scheduled %s", name)
		if err := job(ctx); err != nil {
			s.logger.Printf("Error during scheduled %s: %v", name, err)
			return
		}
		s.logger.Printf("Scheduled %s completed", name)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled %s job with cron expression: %s", name, cronExpression)

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
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler, waiting up to the graceful timeout
// for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s with jobs still running", s.gracefulTimeout)
	}

	s.logger.Printf("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
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
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.Printf("Removed job: %d", jobID)

	return nil
}
