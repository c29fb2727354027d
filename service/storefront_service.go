package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"sheet-storefront/models"
	"sheet-storefront/repository"
)

// StorefrontServiceInterface defines the contract for loading and browsing sheet data
type StorefrontServiceInterface interface {
	Load(ctx context.Context, sheetID string) error
	EnsureFresh(ctx context.Context, sheetID string) error
	RefreshAll(ctx context.Context) int
	EvictIdle(maxIdle time.Duration) int
	Browse(sheetID, category, query string, page int) models.ProductPage
}

// StorefrontService coordinates catalog and theme fetches for a sheet
type StorefrontService struct {
	catalog         *CatalogService
	theme           *ThemeService
	store           repository.CatalogStoreInterface
	maxAge          time.Duration
	productsPerPage int
	now             func() time.Time
	loads           singleflight.Group
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	catalog *CatalogService,
	theme *ThemeService,
	store repository.CatalogStoreInterface,
	maxAge time.Duration,
	productsPerPage int,
) *StorefrontService {
	return &StorefrontService{
		catalog:         catalog,
		theme:           theme,
		store:           store,
		maxAge:          maxAge,
		productsPerPage: productsPerPage,
		now:             time.Now,
	}
}

// Ensure StorefrontService implements StorefrontServiceInterface
var _ StorefrontServiceInterface = (*StorefrontService)(nil)

// sharedLoadTimeout bounds a load shared by several callers
const sharedLoadTimeout = 30 * time.Second

// Load fetches the catalog and the theme of a sheet concurrently.
// Neither fetch cancels the other; each records its own outcome in the store.
// Concurrent loads of the same sheet share a single pair of fetches, which run
// detached from any one caller: a caller whose ctx ends stops waiting with
// ctx.Err() while the fetches complete for everyone else.
func (s *StorefrontService) Load(ctx context.Context, sheetID string) error {
	s.store.Touch(sheetID, s.now())
	return s.load(ctx, sheetID)
}

func (s *StorefrontService) load(ctx context.Context, sheetID string) error {
	results := s.loads.DoChan(sheetID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		var g errgroup.Group
		g.Go(func() error {
			if _, err := s.catalog.FetchProducts(fetchCtx, sheetID); err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if _, err := s.theme.FetchTheme(fetchCtx, sheetID); err != nil {
				return fmt.Errorf("failed to load theme: %w", err)
			}
			return nil
		})
		return nil, g.Wait()
	})

	select {
	case res := <-results:
		if res.Shared {
			log.Printf("🔁 Load: sheet=%s joined an in-flight load", sheetID)
		}
		return res.Err
	case <-ctx.Done():
		log.Printf("⚠️  Load: sheet=%s: caller gave up: %v", sheetID, ctx.Err())
		return ctx.Err()
	}
}

// needsLoad reports whether the cached catalog of a sheet is missing or older than maxAge
func (s *StorefrontService) needsLoad(sheetID string) bool {
	catalog := s.store.Catalog(sheetID)
	if catalog == nil {
		return true
	}
	return s.now().Sub(catalog.FetchedAt) >= s.maxAge
}

// EnsureFresh loads the sheet when nothing is cached yet or the cache has expired
func (s *StorefrontService) EnsureFresh(ctx context.Context, sheetID string) error {
	s.store.Touch(sheetID, s.now())
	if !s.needsLoad(sheetID) {
		return nil
	}
	return s.load(ctx, sheetID)
}

// RefreshAll reloads every sheet known to the store and returns how many failed
func (s *StorefrontService) RefreshAll(ctx context.Context) int {
	sheetIDs := s.store.SheetIDs()
	log.Printf("🔄 RefreshAll: refreshing %d sheets", len(sheetIDs))

	failed := 0
	for _, sheetID := range sheetIDs {
		if err := s.load(ctx, sheetID); err != nil {
			log.Printf("⚠️  RefreshAll: sheet=%s: %v", sheetID, err)
			failed++
		}
	}
	log.Printf("✅ RefreshAll: %d/%d sheets refreshed", len(sheetIDs)-failed, len(sheetIDs))
	return failed
}

// EvictIdle drops the cached state of every sheet no visitor asked for within maxIdle,
// so RefreshAll stops fetching abandoned or mistyped sheet links
func (s *StorefrontService) EvictIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	evicted := s.store.EvictIdle(s.now().Add(-maxIdle))
	for _, sheetID := range evicted {
		log.Printf("🧹 EvictIdle: sheet=%s unused for %v", sheetID, maxIdle)
	}
	return len(evicted)
}

// Browse returns one page of the sheet's cached catalog filtered by category and search query
func (s *StorefrontService) Browse(sheetID, category, query string, page int) models.ProductPage {
	catalog := s.store.Catalog(sheetID)
	if catalog == nil {
		return Paginate(nil, page, s.productsPerPage, models.AllCategory, query)
	}

	resolved := models.AllCategory
	if name, ok := catalog.Categories.Resolve(category); ok {
		resolved = name
	} else if category != "" {
		resolved = category
	}

	filtered := FilterProducts(catalog.Products, resolved, query)
	return Paginate(filtered, page, s.productsPerPage, resolved, query)
}
