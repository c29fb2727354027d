package repository

import (
	"context"
	"errors"
	"time"

	"sheet-storefront/models"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// CatalogStoreInterface defines the contract for the per-sheet catalog and theme state
type CatalogStoreInterface interface {
	BeginFetch(sheetID string)
	EndFetch(sheetID string)
	Touch(sheetID string, at time.Time)
	EvictIdle(cutoff time.Time) []string
	PublishCatalog(sheetID string, catalog models.Catalog)
	RecordCatalogError(sheetID string, message string)
	PublishTheme(sheetID string, theme models.ThemeConfig)
	RecordThemeError(sheetID string, message string)
	Catalog(sheetID string) *models.Catalog
	Theme(sheetID string) *models.ThemeConfig
	Status(sheetID string) models.SheetStatus
	SheetIDs() []string
	HasImage(imageURL string) bool
}

// SessionRepositoryInterface defines the contract for session persistence
type SessionRepositoryInterface interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
