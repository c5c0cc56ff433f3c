package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanLinksCleaner provides the ability to delete orphan link rows.
type OrphanLinksCleaner interface {
	DeleteOrphanLinks() (int64, error)
}

// CleanupOrphanLinksTask removes author, genre and shelf link rows whose
// endpoints no longer exist. Deletes outside a transaction can leave
// such rows behind.
type CleanupOrphanLinksTask struct{}

// Config returns the queue configuration for link cleanup tasks.
func (t CleanupOrphanLinksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_links",
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

// CleanupOrphanLinksProcessor creates a processor function for CleanupOrphanLinksTask.
func CleanupOrphanLinksProcessor(cleaner OrphanLinksCleaner) backlite.QueueProcessor[CleanupOrphanLinksTask] {
	return func(ctx context.Context, task CleanupOrphanLinksTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan links cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanLinks()
		if err != nil {
			return fmt.Errorf("cleanup orphan links: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan link rows", deleted)
		return nil
	}
}

// NewCleanupOrphanLinksQueue creates a backlite queue for link cleanup tasks.
func NewCleanupOrphanLinksQueue(cleaner OrphanLinksCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanLinksProcessor(cleaner))
}
