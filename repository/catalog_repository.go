package repository

import (
	"log"
	"sort"
	"sync"
	"time"

	"sheet-storefront/models"
)

// sheetState is everything known about one spreadsheet.
// Catalog and theme are written by independent fetches and never depend on each other.
type sheetState struct {
	catalog      *models.Catalog
	theme        *models.ThemeConfig
	catalogError string
	themeError   string
	inFlight     int
	lastUsed     time.Time
}

// CatalogStore holds the last published catalog and theme of every sheet seen by the server
type CatalogStore struct {
	mu     sync.RWMutex
	sheets map[string]*sheetState
}

// NewCatalogStore creates an empty CatalogStore
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{sheets: make(map[string]*sheetState)}
}

// Ensure CatalogStore implements CatalogStoreInterface
var _ CatalogStoreInterface = (*CatalogStore)(nil)

// state returns the entry for sheetID, creating it. Caller must hold the write lock.
func (s *CatalogStore) state(sheetID string) *sheetState {
	st, ok := s.sheets[sheetID]
	if !ok {
		st = &sheetState{}
		s.sheets[sheetID] = st
	}
	return st
}

// BeginFetch marks a fetch for the sheet as in flight
func (s *CatalogStore) BeginFetch(sheetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(sheetID).inFlight++
}

// EndFetch marks one in-flight fetch as finished
func (s *CatalogStore) EndFetch(sheetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sheetID)
	if st.inFlight > 0 {
		st.inFlight--
	}
}

// Touch records that a visitor asked for the sheet at the given time
func (s *CatalogStore) Touch(sheetID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sheetID)
	if at.After(st.lastUsed) {
		st.lastUsed = at
	}
}

// EvictIdle forgets every sheet not used since cutoff and returns their ids.
// Sheets with a fetch in flight are kept.
func (s *CatalogStore) EvictIdle(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, st := range s.sheets {
		if st.inFlight > 0 || !st.lastUsed.Before(cutoff) {
			continue
		}
		delete(s.sheets, id)
		evicted = append(evicted, id)
	}
	sort.Strings(evicted)
	return evicted
}

// PublishCatalog replaces the catalog snapshot of a sheet and clears its catalog error
func (s *CatalogStore) PublishCatalog(sheetID string, catalog models.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sheetID)
	st.catalog = &catalog
	st.catalogError = ""
	log.Printf("✓ PublishCatalog: sheet=%s products=%d categories=%d", sheetID, len(catalog.Products), len(catalog.Categories.Categories))
}

// RecordCatalogError stores a readable catalog fetch error. The previous snapshot is kept.
func (s *CatalogStore) RecordCatalogError(sheetID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(sheetID).catalogError = message
}

// PublishTheme replaces the theme of a sheet and clears its theme error
func (s *CatalogStore) PublishTheme(sheetID string, theme models.ThemeConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sheetID)
	st.theme = &theme
	st.themeError = ""
	log.Printf("✓ PublishTheme: sheet=%s banners=%d", sheetID, len(theme.Banners))
}

// RecordThemeError stores a readable theme fetch error. The previous theme is kept.
func (s *CatalogStore) RecordThemeError(sheetID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(sheetID).themeError = message
}

// Catalog returns the current snapshot of a sheet, or nil when none was published.
// The returned value must be treated as read-only.
func (s *CatalogStore) Catalog(sheetID string) *models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.sheets[sheetID]; ok {
		return st.catalog
	}
	return nil
}

// Theme returns the current theme of a sheet, or nil when none was published
func (s *CatalogStore) Theme(sheetID string) *models.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.sheets[sheetID]; ok {
		return st.theme
	}
	return nil
}

// Status summarizes the fetch state of a sheet
func (s *CatalogStore) Status(sheetID string) models.SheetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := models.SheetStatus{SheetID: sheetID}
	st, ok := s.sheets[sheetID]
	if !ok {
		return status
	}
	status.Loading = st.inFlight > 0
	status.CatalogError = st.catalogError
	status.ThemeError = st.themeError
	status.HasTheme = st.theme != nil
	if st.catalog != nil {
		status.ProductCount = len(st.catalog.Products)
		status.CatalogFetchedAt = st.catalog.FetchedAt
	}
	return status
}

// SheetIDs returns every sheet the store has seen, sorted
func (s *CatalogStore) SheetIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sheets))
	for id := range s.sheets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasImage reports whether imageURL is referenced by any published catalog or theme
func (s *CatalogStore) HasImage(imageURL string) bool {
	if imageURL == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.sheets {
		if st.catalog != nil {
			for _, p := range st.catalog.Products {
				if p.Image == imageURL {
					return true
				}
			}
		}
		if st.theme != nil {
			if st.theme.Logo == imageURL {
				return true
			}
			for _, b := range st.theme.Banners {
				if b.ImageURL == imageURL {
					return true
				}
			}
		}
	}
	return false
}
