package service

import (
	"context"
	"log"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/utils"
)

// ThemeService builds the UI theme of a sheet from its theme range
type ThemeService struct {
	sheets     SheetsServiceInterface
	store      repository.CatalogStoreInterface
	themeRange string
}

// NewThemeService creates a new ThemeService
func NewThemeService(sheets SheetsServiceInterface, store repository.CatalogStoreInterface, themeRange string) *ThemeService {
	return &ThemeService{
		sheets:     sheets,
		store:      store,
		themeRange: themeRange,
	}
}

// FetchTheme fetches and publishes the theme of a sheet.
// On failure the theme stays as it was and the error is recorded on the sheet state.
func (s *ThemeService) FetchTheme(ctx context.Context, sheetID string) (*models.ThemeConfig, error) {
	s.store.BeginFetch(sheetID)
	defer s.store.EndFetch(sheetID)

	log.Printf("🔄 FetchTheme: sheet=%s range=%s", sheetID, s.themeRange)
	values, err := s.sheets.GetValues(ctx, sheetID, s.themeRange)
	if err != nil {
		log.Printf("❌ FetchTheme: sheet=%s: %v", sheetID, err)
		s.store.RecordThemeError(sheetID, err.Error())
		return nil, err
	}

	theme := utils.BuildThemeConfig(values)
	s.store.PublishTheme(sheetID, theme)
	return &theme, nil
}
