package service

import (
	"context"
	"testing"
	"time"

	"sheet-storefront/repository"
)

type countingSessions struct {
	repository.SessionRepositoryInterface
	purges int
}

func (c *countingSessions) PurgeExpired(ctx context.Context) (int64, error) {
	c.purges++
	return c.SessionRepositoryInterface.PurgeExpired(ctx)
}

func TestRefreshScheduler_Jobs(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	svc, store := newTestStorefront(sheets, time.Hour)
	store.Touch("sheet", time.Now())
	store.Touch("stale", time.Now().Add(-72*time.Hour))

	sessions := &countingSessions{SessionRepositoryInterface: repository.NewMemorySessionRepository(time.Hour)}
	scheduler := NewRefreshScheduler(svc, sessions, 24*time.Hour)

	scheduler.RefreshCatalogs()
	if store.Catalog("sheet") == nil {
		t.Error("RefreshCatalogs must load known sheets")
	}
	if ids := store.SheetIDs(); len(ids) != 1 || ids[0] != "sheet" {
		t.Errorf("known sheets = %v, stale sheet must be evicted before refresh", ids)
	}
	scheduler.PurgeSessions()
	if sessions.purges != 1 {
		t.Errorf("purges = %d, want 1", sessions.purges)
	}
}

func TestRefreshScheduler_Start(t *testing.T) {
	svc, _ := newTestStorefront(newFakeSheets(), time.Hour)
	sessions := repository.NewMemorySessionRepository(time.Hour)

	if err := NewRefreshScheduler(svc, sessions, time.Hour).Start("not a schedule"); err == nil {
		t.Error("expected error for invalid schedule")
	}

	scheduler := NewRefreshScheduler(svc, sessions, time.Hour)
	if err := scheduler.Start("@every 5m"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	scheduler.Stop()

	disabled := NewRefreshScheduler(svc, sessions, time.Hour)
	if err := disabled.Start(""); err != nil {
		t.Fatalf("Start with refresh disabled: %v", err)
	}
	disabled.Stop()
}
