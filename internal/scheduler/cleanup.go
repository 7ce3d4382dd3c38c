// Package scheduler triggers periodic maintenance jobs.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

// TaskEnqueuer is the slice of the task client the scheduler needs.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// CleanupScheduler enqueues the orphan cleanup task on a cron schedule.
type CleanupScheduler struct {
	queue    TaskEnqueuer
	schedule string
	task     backlite.Task

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewCleanupScheduler creates a scheduler that enqueues task per schedule
// (standard five-field cron format).
func NewCleanupScheduler(queue TaskEnqueuer, schedule string, task backlite.Task) *CleanupScheduler {
	return &CleanupScheduler{
		queue:    queue,
		schedule: schedule,
		task:     task,
		cron: cron.New(cron.WithParser(
			cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		)),
	}
}

// Start begins the schedule. Safe to call once.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.queue.Add(s.task).Save(); err != nil {
			log.Printf("Cleanup scheduler: failed to enqueue task: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Cleanup scheduler: started with schedule %q", s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running enqueue to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Cleanup scheduler: stopped")
}
