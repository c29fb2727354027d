package repository

import (
	"sync"
	"testing"
	"time"

	"sheet-storefront/models"
)

func sampleCatalog() models.Catalog {
	return models.Catalog{
		Products: []models.Product{
			{ID: 1, Name: "Shoe", Image: "https://cdn.example.com/shoe.png"},
			{ID: 2, Name: "Hat"},
		},
		Categories: models.CategorySet{Categories: []models.Category{{Name: models.AllCategory, Slug: "all"}}},
		FetchedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCatalogStore_ErrorKeepsPreviousSnapshot(t *testing.T) {
	store := NewCatalogStore()
	store.PublishCatalog("sheet", sampleCatalog())
	store.RecordCatalogError("sheet", "HTTP error! status: 500")

	catalog := store.Catalog("sheet")
	if catalog == nil || len(catalog.Products) != 2 {
		t.Fatalf("catalog = %+v, want previous snapshot", catalog)
	}
	status := store.Status("sheet")
	if status.CatalogError != "HTTP error! status: 500" || status.ProductCount != 2 {
		t.Errorf("status = %+v", status)
	}

	store.PublishCatalog("sheet", models.Catalog{})
	if store.Status("sheet").CatalogError != "" {
		t.Error("successful publish must clear the catalog error")
	}
}

func TestCatalogStore_CatalogAndThemeAreIndependent(t *testing.T) {
	store := NewCatalogStore()
	store.RecordThemeError("sheet", "No data found")
	store.PublishCatalog("sheet", sampleCatalog())

	if store.Theme("sheet") != nil {
		t.Error("theme must stay unset after a theme failure")
	}
	status := store.Status("sheet")
	if status.ThemeError == "" || status.CatalogError != "" || status.HasTheme {
		t.Errorf("status = %+v", status)
	}

	store.PublishTheme("sheet", models.ThemeConfig{Logo: "🛍️"})
	if got := store.Theme("sheet"); got == nil || got.Logo != "🛍️" {
		t.Errorf("theme = %+v", got)
	}
}

func TestCatalogStore_LoadingFlag(t *testing.T) {
	store := NewCatalogStore()
	store.BeginFetch("sheet")
	store.BeginFetch("sheet")
	store.EndFetch("sheet")
	if !store.Status("sheet").Loading {
		t.Error("one fetch still in flight")
	}
	store.EndFetch("sheet")
	store.EndFetch("sheet")
	if store.Status("sheet").Loading {
		t.Error("no fetch in flight")
	}
}

func TestCatalogStore_EvictIdle(t *testing.T) {
	store := NewCatalogStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Touch("idle", now.Add(-48*time.Hour))
	store.PublishCatalog("idle", sampleCatalog())
	store.Touch("recent", now.Add(-time.Minute))
	store.RecordCatalogError("failing", "Catalog failed")
	store.Touch("busy", now.Add(-48*time.Hour))
	store.BeginFetch("busy")

	evicted := store.EvictIdle(now.Add(-24 * time.Hour))
	if len(evicted) != 2 || evicted[0] != "failing" || evicted[1] != "idle" {
		t.Fatalf("evicted = %v, want [failing idle]", evicted)
	}
	if store.Catalog("idle") != nil {
		t.Error("evicted sheet must lose its catalog")
	}
	ids := store.SheetIDs()
	if len(ids) != 2 || ids[0] != "busy" || ids[1] != "recent" {
		t.Errorf("remaining = %v, want [busy recent]", ids)
	}

	store.EndFetch("busy")
	if evicted := store.EvictIdle(now.Add(-24 * time.Hour)); len(evicted) != 1 || evicted[0] != "busy" {
		t.Errorf("evicted = %v, want [busy] once its fetch finished", evicted)
	}
}

func TestCatalogStore_TouchKeepsLatest(t *testing.T) {
	store := NewCatalogStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Touch("sheet", now)
	store.Touch("sheet", now.Add(-time.Hour))
	if evicted := store.EvictIdle(now.Add(-time.Minute)); len(evicted) != 0 {
		t.Errorf("evicted = %v, an older touch must not rewind last use", evicted)
	}
}

func TestCatalogStore_UnknownSheet(t *testing.T) {
	store := NewCatalogStore()
	if store.Catalog("nope") != nil || store.Theme("nope") != nil {
		t.Error("unknown sheet must have no state")
	}
	if status := store.Status("nope"); status.SheetID != "nope" || status.Loading {
		t.Errorf("status = %+v", status)
	}
}

func TestCatalogStore_HasImage(t *testing.T) {
	store := NewCatalogStore()
	store.PublishCatalog("a", sampleCatalog())
	store.PublishTheme("b", models.ThemeConfig{
		Logo:    "https://cdn.example.com/logo.png",
		Banners: []models.Banner{{ID: 1, ImageURL: "https://cdn.example.com/banner.jpg"}},
	})

	for _, url := range []string{
		"https://cdn.example.com/shoe.png",
		"https://cdn.example.com/logo.png",
		"https://cdn.example.com/banner.jpg",
	} {
		if !store.HasImage(url) {
			t.Errorf("HasImage(%q) = false", url)
		}
	}
	if store.HasImage("http://169.254.169.254/latest/meta-data") || store.HasImage("") {
		t.Error("HasImage must reject unreferenced URLs")
	}
	if ids := store.SheetIDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("SheetIDs = %v", ids)
	}
}

func TestCatalogStore_ConcurrentAccess(t *testing.T) {
	store := NewCatalogStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.PublishCatalog("sheet", sampleCatalog())
		}()
		go func() {
			defer wg.Done()
			if c := store.Catalog("sheet"); c != nil && len(c.Products) != 2 {
				t.Errorf("torn snapshot: %d products", len(c.Products))
			}
		}()
	}
	wg.Wait()
}
