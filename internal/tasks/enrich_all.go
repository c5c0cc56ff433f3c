package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/ivanzak/bookden/internal/metadata"
)

// BookIDLister supplies the IDs of every book in the catalog.
type BookIDLister interface {
	AllIDs() ([]uint, error)
}

// EnrichAllBooksTask triggers enrichment for every book in the catalog.
// Books run sequentially so the external providers see a steady request
// rate rather than a burst.
type EnrichAllBooksTask struct{}

// Config returns the queue configuration for bulk enrichment tasks.
func (t EnrichAllBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_all_books",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute, // Allow time to process all books
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichAllBooksProcessor creates a processor function for EnrichAllBooksTask.
func EnrichAllBooksProcessor(enricher *metadata.Enricher, lister BookIDLister) backlite.QueueProcessor[EnrichAllBooksTask] {
	return func(ctx context.Context, task EnrichAllBooksTask) error {
		if enricher == nil || lister == nil {
			return fmt.Errorf("enricher not configured")
		}

		ids, err := lister.AllIDs()
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}

		var enriched, skipped, failed int
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := enricher.EnrichBook(ctx, id)
			if err != nil {
				log.Printf("[TASK] Enrich book %d failed: %v", id, err)
				failed++
				continue
			}
			if len(result.FieldsUpdated) > 0 {
				enriched++
			} else {
				skipped++
			}
		}

		log.Printf("[TASK] Enrichment complete: %d total, %d enriched, %d skipped, %d failed",
			len(ids), enriched, skipped, failed)

		return nil
	}
}

// NewEnrichAllBooksQueue creates a backlite queue for bulk enrichment tasks.
func NewEnrichAllBooksQueue(enricher *metadata.Enricher, lister BookIDLister) backlite.Queue {
	return backlite.NewQueue(EnrichAllBooksProcessor(enricher, lister))
}
