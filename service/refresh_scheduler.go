package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sheet-storefront/repository"
)

// SessionPurgeSchedule is how often expired sessions are removed
const SessionPurgeSchedule = "@every 1h"

// RefreshScheduler runs the periodic catalog refresh and session cleanup jobs
type RefreshScheduler struct {
	cron       *cron.Cron
	storefront StorefrontServiceInterface
	sessions   repository.SessionRepositoryInterface
	idleTTL    time.Duration
	timeout    time.Duration
}

// NewRefreshScheduler creates a new RefreshScheduler.
// Sheets unused for idleTTL are evicted before each refresh; 0 disables eviction.
func NewRefreshScheduler(storefront StorefrontServiceInterface, sessions repository.SessionRepositoryInterface, idleTTL time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		cron:       cron.New(),
		storefront: storefront,
		sessions:   sessions,
		idleTTL:    idleTTL,
		timeout:    2 * time.Minute,
	}
}

// RefreshCatalogs drops idle sheets and reloads the rest
func (s *RefreshScheduler) RefreshCatalogs() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.storefront.EvictIdle(s.idleTTL)
	s.storefront.RefreshAll(ctx)
}

// PurgeSessions removes expired sessions from the session store
func (s *RefreshScheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sessions.PurgeExpired(ctx); err != nil {
		log.Printf("❌ PurgeSessions: %v", err)
	}
}

// Start registers the jobs and starts the scheduler.
// An empty refreshSchedule disables the catalog refresh job.
func (s *RefreshScheduler) Start(refreshSchedule string) error {
	if refreshSchedule != "" {
		if _, err := s.cron.AddFunc(refreshSchedule, s.RefreshCatalogs); err != nil {
			return fmt.Errorf("failed to register catalog refresh job: %w", err)
		}
		log.Printf("⏰ Catalog refresh scheduled: %s", refreshSchedule)
	}
	if _, err := s.cron.AddFunc(SessionPurgeSchedule, s.PurgeSessions); err != nil {
		return fmt.Errorf("failed to register session purge job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}
