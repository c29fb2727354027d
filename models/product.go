package models

import (
	"sort"
	"time"
)

// AllCategory is the synthetic category that matches every product
const AllCategory = "All"

// VariantOption represents one selectable value within a variant type
type VariantOption struct {
	Name          string  `json:"name"`
	Value         string  `json:"value"`         // Normalized key used for selection comparisons
	PriceModifier float64 `json:"priceModifier"` // Signed delta applied on top of the base price
}

// VariantCatalog maps a variant type name (e.g. "color") to its ordered options
type VariantCatalog map[string][]VariantOption

// Types returns the variant type names in a stable order
func (vc VariantCatalog) Types() []string {
	types := make([]string, 0, len(vc))
	for t := range vc {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Option looks up an option of a variant type by its normalized key
func (vc VariantCatalog) Option(variantType, value string) (VariantOption, bool) {
	for _, opt := range vc[variantType] {
		if opt.Value == value {
			return opt, true
		}
	}
	return VariantOption{}, false
}

// Product represents a single catalog row coerced from the spreadsheet
type Product struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"originalPrice"`
	Category      string         `json:"category"`
	Rating        float64        `json:"rating"`
	Image         string         `json:"image"`
	Variants      VariantCatalog `json:"variants"`
}

// HasVariants reports whether the product has choosable options
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Category is one entry of the category filter
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategorySet holds the distinct categories of one catalog build, "All" first
type CategorySet struct {
	Categories []Category `json:"categories"`
}

// Names returns the category names in insertion order
func (cs CategorySet) Names() []string {
	names := make([]string, len(cs.Categories))
	for i, c := range cs.Categories {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether the set holds a category with the given name
func (cs CategorySet) Contains(name string) bool {
	for _, c := range cs.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Resolve maps a category name or slug to its canonical name
func (cs CategorySet) Resolve(nameOrSlug string) (string, bool) {
	for _, c := range cs.Categories {
		if c.Name == nameOrSlug || c.Slug == nameOrSlug {
			return c.Name, true
		}
	}
	return "", false
}

// Catalog is the snapshot published by one successful catalog fetch.
// Products and categories always come from the same fetch.
type Catalog struct {
	Products   []Product   `json:"products"`
	Categories CategorySet `json:"categories"`
	FetchedAt  time.Time   `json:"fetchedAt"`
}

// FindProduct returns the product with the given id
func (c *Catalog) FindProduct(id int) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
