package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanCleaner deletes records that reference a book that no longer exists.
// Book deletion does not cascade; bookmarks and highlights left behind are
// swept here instead.
type OrphanCleaner interface {
	DeleteOrphans() (int64, error)
}

// CleanupOrphansTask removes bookmarks and highlights whose book is gone.
type CleanupOrphansTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphansProcessor creates a processor function for CleanupOrphansTask.
func CleanupOrphansProcessor(cleaners ...OrphanCleaner) backlite.QueueProcessor[CleanupOrphansTask] {
	return func(ctx context.Context, task CleanupOrphansTask) error {
		if len(cleaners) == 0 {
			return fmt.Errorf("no orphan cleaners configured")
		}

		var total int64
		for _, cleaner := range cleaners {
			deleted, err := cleaner.DeleteOrphans()
			if err != nil {
				return fmt.Errorf("cleanup orphans: %w", err)
			}
			total += deleted
		}

		log.Printf("[TASK] Cleaned up %d orphaned records", total)
		return nil
	}
}

// NewCleanupOrphansQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphansQueue(cleaners ...OrphanCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphansProcessor(cleaners...))
}
