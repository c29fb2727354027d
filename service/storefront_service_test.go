package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"sheet-storefront/models"
	"sheet-storefront/repository"
)

func newTestStorefront(sheets SheetsServiceInterface, maxAge time.Duration) (*StorefrontService, *repository.CatalogStore) {
	store := repository.NewCatalogStore()
	svc := NewStorefrontService(
		NewCatalogService(sheets, store, "Sheet1!A:H"),
		NewThemeService(sheets, store, "Sheet2!A:J"),
		store,
		maxAge,
		8,
	)
	return svc, store
}

func TestLoad_ThemeFailureDoesNotBlockCatalog(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe", "50", "Sports"}}, nil)
	sheets.set("Sheet2!A:J", nil, &SheetsAPIError{StatusCode: 400, Message: "Unable to parse range: Sheet2!A:J"})
	svc, store := newTestStorefront(sheets, time.Minute)

	err := svc.Load(context.Background(), "sheet")
	if err == nil || !strings.Contains(err.Error(), "Unable to parse range") {
		t.Fatalf("Load err = %v", err)
	}

	status := store.Status("sheet")
	if status.ProductCount != 1 || status.CatalogError != "" {
		t.Errorf("catalog side = %+v", status)
	}
	if status.ThemeError != "Unable to parse range: Sheet2!A:J" || status.HasTheme {
		t.Errorf("theme side = %+v", status)
	}
}

func TestEnsureFresh_UsesCacheUntilMaxAge(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe", "50"}}, nil)
	sheets.set("Sheet2!A:J", [][]string{{"Logo", "Navbar BgColor"}}, nil)
	svc, _ := newTestStorefront(sheets, time.Minute)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.catalog.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := svc.EnsureFresh(ctx, "sheet"); err != nil {
			t.Fatalf("EnsureFresh: %v", err)
		}
	}
	if got := sheets.callCount("Sheet1!A:H"); got != 1 {
		t.Errorf("catalog fetches = %d, want 1", got)
	}

	now = now.Add(2 * time.Minute)
	if err := svc.EnsureFresh(ctx, "sheet"); err != nil {
		t.Fatalf("EnsureFresh: %v", err)
	}
	if got := sheets.callCount("Sheet1!A:H"); got != 2 {
		t.Errorf("catalog fetches after expiry = %d, want 2", got)
	}
}

func TestEnsureFresh_RetriesAfterFailure(t *testing.T) {
	sheets := newFakeSheets()
	svc, _ := newTestStorefront(sheets, time.Hour)

	if err := svc.EnsureFresh(context.Background(), "sheet"); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	_ = svc.EnsureFresh(context.Background(), "sheet")
	if got := sheets.callCount("Sheet1!A:H"); got != 2 {
		t.Errorf("catalog fetches = %d, want 2", got)
	}
}

func TestRefreshAll(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	sheets.set("Sheet2!A:J", [][]string{{"Logo", "Navbar BgColor"}}, nil)
	svc, store := newTestStorefront(sheets, time.Hour)

	store.Touch("a", time.Now())
	store.Touch("b", time.Now())

	if failed := svc.RefreshAll(context.Background()); failed != 0 {
		t.Errorf("failed = %d", failed)
	}
	if store.Catalog("a") == nil || store.Catalog("b") == nil {
		t.Error("every known sheet must be refreshed")
	}
}

func TestEvictIdle_StopsRefreshingAbandonedSheets(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	svc, store := newTestStorefront(sheets, time.Hour)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_ = svc.EnsureFresh(context.Background(), "abandoned")
	now = now.Add(20 * time.Hour)
	_ = svc.EnsureFresh(context.Background(), "visited")
	now = now.Add(5 * time.Hour)

	if evicted := svc.EvictIdle(24 * time.Hour); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if ids := store.SheetIDs(); len(ids) != 1 || ids[0] != "visited" {
		t.Fatalf("known sheets = %v, want [visited]", ids)
	}

	before := sheets.callCount("Sheet1!A:H")
	svc.RefreshAll(context.Background())
	if got := sheets.callCount("Sheet1!A:H") - before; got != 1 {
		t.Errorf("refresh fetched %d sheets, want 1", got)
	}
	if svc.EvictIdle(0) != 0 {
		t.Error("a zero idle ttl disables eviction")
	}
}

func TestRefreshAll_DoesNotCountAsUse(t *testing.T) {
	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	svc, store := newTestStorefront(sheets, time.Hour)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_ = svc.EnsureFresh(context.Background(), "sheet")
	now = now.Add(48 * time.Hour)
	svc.RefreshAll(context.Background())

	if svc.EvictIdle(24*time.Hour) != 1 || len(store.SheetIDs()) != 0 {
		t.Error("a sheet refreshed only by the scheduler must still expire")
	}
}

// gatedSheets holds every fetch until release is closed or the fetch ctx ends
type gatedSheets struct {
	*fakeSheets
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSheets) GetValues(ctx context.Context, sheetID string, readRange string) ([][]string, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.fakeSheets.GetValues(ctx, sheetID, readRange)
}

func TestLoad_SharedFetchSurvivesLeaderCancel(t *testing.T) {
	fake := newFakeSheets()
	fake.set("Sheet1!A:H", [][]string{productHeader, {"1", "Shoe"}}, nil)
	fake.set("Sheet2!A:J", [][]string{{"Logo", "Navbar BgColor"}}, nil)
	sheets := &gatedSheets{fakeSheets: fake, started: make(chan struct{}), release: make(chan struct{})}
	svc, store := newTestStorefront(sheets, time.Hour)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() { leaderErr <- svc.Load(leaderCtx, "sheet") }()
	<-sheets.started

	followerErr := make(chan error, 1)
	go func() { followerErr <- svc.Load(context.Background(), "sheet") }()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("leader err = %v, want context.Canceled", err)
	}

	close(sheets.release)
	if err := <-followerErr; err != nil {
		t.Fatalf("follower err = %v, want nil", err)
	}
	status := store.Status("sheet")
	if status.CatalogError != "" || status.ThemeError != "" || status.ProductCount != 1 {
		t.Errorf("status = %+v, the leader's cancel must not fail the shared fetch", status)
	}
}

func TestBrowse(t *testing.T) {
	rows := [][]string{productHeader}
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"", "Running Shoe " + string(rune('A'+i)), "50", "Sports"})
	}
	rows = append(rows, []string{"", "Desk Lamp", "20", "Home & Garden"}, []string{"", "Yoga Mat", "15", "Sports"})

	sheets := newFakeSheets()
	sheets.set("Sheet1!A:H", rows, nil)
	svc, _ := newTestStorefront(sheets, time.Hour)
	if _, err := svc.catalog.FetchProducts(context.Background(), "sheet"); err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}

	all := svc.Browse("sheet", "", "", 1)
	if all.Total != 12 || all.TotalPages != 2 || len(all.Products) != 8 || all.Category != models.AllCategory {
		t.Errorf("all = total %d pages %d len %d cat %q", all.Total, all.TotalPages, len(all.Products), all.Category)
	}

	second := svc.Browse("sheet", "All", "", 2)
	if len(second.Products) != 4 || second.Page != 2 {
		t.Errorf("page 2 = %d products, page %d", len(second.Products), second.Page)
	}

	bySlug := svc.Browse("sheet", "home-and-garden", "", 1)
	if bySlug.Total != 1 || bySlug.Category != "Home & Garden" {
		t.Errorf("by slug = %+v", bySlug)
	}

	search := svc.Browse("sheet", "", "SHOE", 9)
	if search.Total != 10 || search.Page != 2 {
		t.Errorf("search = total %d page %d", search.Total, search.Page)
	}

	byCategoryText := svc.Browse("sheet", "", "garden", 1)
	if byCategoryText.Total != 1 {
		t.Errorf("search over category = %d", byCategoryText.Total)
	}

	unknown := svc.Browse("sheet", "Toys", "", 1)
	if unknown.Total != 0 || unknown.TotalPages != 0 || unknown.Page != 1 || unknown.Products == nil {
		t.Errorf("unknown category = %+v", unknown)
	}

	empty := svc.Browse("other", "", "", 1)
	if empty.Total != 0 || empty.Products == nil {
		t.Errorf("unloaded sheet = %+v", empty)
	}
}

func TestStorefront_EndToEndOverHTTP(t *testing.T) {
	api := newFakeSheetsAPI(t, func(sheetID, readRange string) (int, string) {
		switch readRange {
		case "Sheet1!A:H":
			return http.StatusOK, productValuesJSON
		default:
			return http.StatusOK, `{"range": "Sheet2!A1:J1"}`
		}
	})
	svc, store := newTestStorefront(api.service(t, "key"), time.Minute)

	err := svc.Load(context.Background(), "1AbC")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Load err = %v, want theme ErrNoData", err)
	}

	catalog := store.Catalog("1AbC")
	if catalog == nil || len(catalog.Products) != 1 {
		t.Fatalf("catalog = %+v", catalog)
	}
	p := catalog.Products[0]
	if p.ID != 1 || p.Price != 50 || p.OriginalPrice != 70 || p.Rating != 4.5 || p.Image != "img.png" {
		t.Errorf("product = %+v", p)
	}
	if got := catalog.Categories.Names(); len(got) != 2 || got[0] != "All" || got[1] != "Sports" {
		t.Errorf("categories = %v", got)
	}
	if opts := p.Variants["size"]; len(opts) != 2 || opts[0].Value != "s" || opts[1].Value != "m" {
		t.Errorf("size options = %+v", opts)
	}
	if store.Theme("1AbC") != nil {
		t.Error("theme must stay unset when its range is empty")
	}
}
