package service

import (
	"strings"

	"sheet-storefront/models"
)

// FilterProducts keeps the products of a category whose name or category
// contains query, case-insensitively. The "All" category matches everything.
func FilterProducts(products []models.Product, category, query string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.AllCategory && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Paginate slices products into 1-based pages of perPage items.
// Out of range pages are clamped to the first or last page.
func Paginate(products []models.Product, page, perPage int, category, query string) models.ProductPage {
	if perPage <= 0 {
		perPage = 8
	}
	total := len(products)
	totalPages := (total + perPage - 1) / perPage

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	pageProducts := []models.Product{}
	if start < total {
		pageProducts = products[start:end]
	}

	return models.ProductPage{
		Products:   pageProducts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		PerPage:    perPage,
		Category:   category,
		Query:      query,
	}
}
