package utils

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"sheet-storefront/models"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeOptionValue builds the comparison key of an option: trimmed,
// lowercased, with all whitespace removed ("Space Gray" -> "spacegray")
func NormalizeOptionValue(raw string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
}

// ParseVariants converts a variants cell into a VariantCatalog.
// Accepted formats:
//
//	{"color":[{"name":"Red","value":"red","priceModifier":5}]}
//	color:Black,White|size:S,M
//
// Blank cells and the literal "undefined" yield an empty catalog. Malformed
// input never fails the row: it degrades to an empty catalog.
func ParseVariants(cell string) (catalog models.VariantCatalog) {
	if strings.TrimSpace(cell) == "" || cell == "undefined" {
		return models.VariantCatalog{}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  ParseVariants: failed to parse variants %q: %v", cell, r)
			catalog = models.VariantCatalog{}
		}
	}()

	if strings.HasPrefix(cell, "{") {
		var parsed models.VariantCatalog
		if err := json.Unmarshal([]byte(cell), &parsed); err != nil {
			log.Printf("⚠️  ParseVariants: failed to parse variants %q: %v", cell, err)
			return models.VariantCatalog{}
		}
		if parsed == nil {
			return models.VariantCatalog{}
		}
		return parsed
	}

	return parseCompactVariants(cell)
}

// parseCompactVariants handles the "type:v1,v2|type2:v1" grammar.
// Compact options carry no pricing, so every delta is 0.
func parseCompactVariants(cell string) models.VariantCatalog {
	catalog := models.VariantCatalog{}

	for _, group := range strings.Split(cell, "|") {
		if !strings.Contains(group, ":") {
			continue
		}
		parts := strings.Split(group, ":")
		variantType, values := parts[0], parts[1]
		if variantType == "" || values == "" {
			continue
		}

		rawValues := strings.Split(values, ",")
		options := make([]models.VariantOption, 0, len(rawValues))
		for _, raw := range rawValues {
			options = append(options, models.VariantOption{
				Name:          strings.TrimSpace(raw),
				Value:         NormalizeOptionValue(raw),
				PriceModifier: 0,
			})
		}
		catalog[strings.TrimSpace(variantType)] = options
	}

	return catalog
}
