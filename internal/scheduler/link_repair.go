// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ivanzak/bookden/internal/config"
)

// LinkCleaner removes orphan link rows and reports how many it deleted.
type LinkCleaner interface {
	DeleteOrphanLinks() (int64, error)
}

// LinkRepairScheduler periodically sweeps the link tables for rows whose
// book, author, genre or shelf no longer exists. Book deletes are not
// transactional, so a crash mid-delete can strand link rows.
type LinkRepairScheduler struct {
	cleaner LinkCleaner
	config  config.LinkRepair

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	lastRun    *time.Time
	lastResult string
}

// NewLinkRepairScheduler creates a new scheduler instance.
func NewLinkRepairScheduler(cleaner LinkCleaner, cfg config.LinkRepair) *LinkRepairScheduler {
	return &LinkRepairScheduler{
		cleaner: cleaner,
		config:  cfg,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if link repair is enabled.
func (s *LinkRepairScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Link repair scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runRepair()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Link repair scheduler: started with schedule '%s'. Next run: %v",
		s.config.Schedule, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish.
func (s *LinkRepairScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Link repair scheduler: stopped")
}

// RunNow triggers an immediate sweep.
func (s *LinkRepairScheduler) RunNow() {
	go s.runRepair()
}

// IsRunning returns whether the scheduler is active.
func (s *LinkRepairScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur.
func (s *LinkRepairScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked()
}

func (s *LinkRepairScheduler) nextRunLocked() *time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status reports the outcome of the most recent sweep.
func (s *LinkRepairScheduler) Status() (lastRun *time.Time, lastResult string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastResult
}

// runRepair performs the actual sweep.
func (s *LinkRepairScheduler) runRepair() {
	log.Printf("Link repair: starting sweep")
	startTime := time.Now()

	deleted, err := s.cleaner.DeleteOrphanLinks()

	s.mu.Lock()
	now := time.Now()
	s.lastRun = &now
	if err != nil {
		s.lastResult = fmt.Sprintf("failed: %v", err)
	} else {
		s.lastResult = fmt.Sprintf("removed %d orphan link rows", deleted)
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("Link repair: sweep failed: %v", err)
		return
	}

	log.Printf("Link repair: removed %d orphan link rows in %v",
		deleted, time.Since(startTime).Round(time.Millisecond))
}
