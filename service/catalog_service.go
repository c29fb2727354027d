package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/utils"
)

// CatalogService builds the product catalog of a sheet from its product range
type CatalogService struct {
	sheets       SheetsServiceInterface
	store        repository.CatalogStoreInterface
	productRange string
	now          func() time.Time
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(sheets SheetsServiceInterface, store repository.CatalogStoreInterface, productRange string) *CatalogService {
	return &CatalogService{
		sheets:       sheets,
		store:        store,
		productRange: productRange,
		now:          time.Now,
	}
}

// categorySlug returns the URL slug of a category name
func categorySlug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildCatalog converts the product range (header row first) into a catalog snapshot.
// The header row is dropped without inspection; rows without a name are skipped.
// Categories keep first-seen order after the "All" sentinel.
func BuildCatalog(values [][]string, fetchedAt time.Time) models.Catalog {
	catalog := models.Catalog{
		Products: []models.Product{},
		Categories: models.CategorySet{
			Categories: []models.Category{{Name: models.AllCategory, Slug: categorySlug(models.AllCategory)}},
		},
		FetchedAt: fetchedAt,
	}
	if len(values) <= 1 {
		return catalog
	}

	seen := map[string]bool{models.AllCategory: true}
	skipped := 0
	for i, row := range values[1:] {
		product, ok := utils.CoerceProductRow(row, i+2)
		if !ok {
			skipped++
			continue
		}
		catalog.Products = append(catalog.Products, product)

		if product.Category != "" && !seen[product.Category] {
			seen[product.Category] = true
			catalog.Categories.Categories = append(catalog.Categories.Categories, models.Category{
				Name: product.Category,
				Slug: categorySlug(product.Category),
			})
		}
	}

	if skipped > 0 {
		log.Printf("⚠️  BuildCatalog: skipped %d rows without a product name", skipped)
	}
	return catalog
}

// FetchProducts fetches and publishes the catalog of a sheet.
// On failure the previously published catalog stays in place, the error is
// recorded on the sheet state and an empty list is returned with the error.
func (s *CatalogService) FetchProducts(ctx context.Context, sheetID string) ([]models.Product, error) {
	s.store.BeginFetch(sheetID)
	defer s.store.EndFetch(sheetID)

	log.Printf("🔄 FetchProducts: sheet=%s range=%s", sheetID, s.productRange)
	values, err := s.sheets.GetValues(ctx, sheetID, s.productRange)
	if err != nil {
		log.Printf("❌ FetchProducts: sheet=%s: %v", sheetID, err)
		s.store.RecordCatalogError(sheetID, err.Error())
		return []models.Product{}, err
	}

	catalog := BuildCatalog(values, s.now())
	s.store.PublishCatalog(sheetID, catalog)
	return catalog.Products, nil
}
