package utils

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"sheet-storefront/models"
)

// ProductColumnCount is the number of columns of the product range (A:H)
const ProductColumnCount = 8

// Positional columns of the product range
const (
	ColProductID = iota
	ColProductName
	ColProductPrice
	ColProductCategory
	ColProductRating
	ColProductImage
	ColProductOriginalPrice
	ColProductVariants
)

var (
	leadingIntRegex   = regexp.MustCompile(`^\s*[+-]?\d+`)
	leadingFloatRegex = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// PadRow returns a copy of row extended with empty cells up to n columns.
// The Sheets API omits trailing empty cells, so short rows are normal.
func PadRow(row []string, n int) []string {
	padded := make([]string, len(row), max(len(row), n))
	copy(padded, row)
	for len(padded) < n {
		padded = append(padded, "")
	}
	return padded
}

// ParseLeadingInt parses the integer prefix of s ("12abc" -> 12).
// ok is false when s does not start with a number.
func ParseLeadingInt(s string) (int, bool) {
	match := leadingIntRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(match))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseLeadingFloat parses the decimal prefix of s ("4.5 stars" -> 4.5).
// ok is false when s does not start with a number.
func ParseLeadingFloat(s string) (float64, bool) {
	match := leadingFloatRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(match), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FloatOrZero parses a numeric cell, returning 0 when it is blank or malformed
func FloatOrZero(s string) float64 {
	f, ok := ParseLeadingFloat(s)
	if !ok {
		return 0
	}
	return f
}

// CoerceProductRow converts one data row of the product range into a Product.
// rowNumber is the 1-based sheet row (the header is row 1) and becomes the id
// when the id cell is blank, malformed or zero.
// Returns false when the name cell is empty; such rows are not part of the catalog.
func CoerceProductRow(row []string, rowNumber int) (models.Product, bool) {
	cells := PadRow(row, ProductColumnCount)

	name := strings.TrimSpace(cells[ColProductName])
	if name == "" {
		return models.Product{}, false
	}

	id, ok := ParseLeadingInt(cells[ColProductID])
	if !ok || id == 0 {
		log.Printf("⚠️  CoerceProductRow: row %d has no usable id (%q), using row number", rowNumber, cells[ColProductID])
		id = rowNumber
	}

	return models.Product{
		ID:            id,
		Name:          name,
		Price:         FloatOrZero(cells[ColProductPrice]),
		OriginalPrice: FloatOrZero(cells[ColProductOriginalPrice]),
		Category:      strings.TrimSpace(cells[ColProductCategory]),
		Rating:        FloatOrZero(cells[ColProductRating]),
		Image:         strings.TrimSpace(cells[ColProductImage]),
		Variants:      ParseVariants(cells[ColProductVariants]),
	}, true
}
