package utils

import (
	"fmt"
	"log"
	"strings"

	"github.com/mitchellh/mapstructure"

	"sheet-storefront/models"
)

// MapRowByHeader zips header names with the (padded) cells of a row.
// Blank headers are ignored; a repeated header keeps the last column's value.
func MapRowByHeader(headers []string, row []string) map[string]string {
	cells := PadRow(row, len(headers))
	rowData := make(map[string]string, len(headers))
	for i, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" {
			continue
		}
		rowData[name] = cells[i]
	}
	return rowData
}

// DecodeThemeRow decodes a header-keyed row into a ThemeRow.
// Columns that do not match a known header are ignored.
func DecodeThemeRow(rowData map[string]string) (models.ThemeRow, error) {
	var themeRow models.ThemeRow
	if err := mapstructure.Decode(rowData, &themeRow); err != nil {
		return models.ThemeRow{}, fmt.Errorf("failed to decode theme row: %w", err)
	}
	return themeRow, nil
}

// BuildThemeConfig converts the theme range (header row first) into a ThemeConfig.
// Only rows with a non-empty second cell are considered. The first of those
// seeds the scalar fields; every one with a banner title adds a banner whose
// id is its 1-based position among the considered rows.
func BuildThemeConfig(values [][]string) models.ThemeConfig {
	theme := models.ThemeConfig{Banners: []models.Banner{}}
	if len(values) == 0 {
		return theme
	}

	headers := values[0]
	index := 0
	for _, row := range values[1:] {
		if len(row) < 2 || row[1] == "" {
			continue
		}

		themeRow, err := DecodeThemeRow(MapRowByHeader(headers, row))
		if err != nil {
			log.Printf("⚠️  BuildThemeConfig: skipping theme row %d: %v", index+1, err)
			index++
			continue
		}

		if index == 0 {
			theme.Logo = themeRow.Logo
			theme.Navbar.BgColor = themeRow.NavbarBgColor
			theme.Navbar.IconColor = themeRow.NavbarIconColor
			theme.Product.NameColor = themeRow.ProductNameColor
			theme.Button.BgColor = themeRow.ButtonBgColor
			theme.Button.TextColor = themeRow.ButtonTextColor
		}

		if themeRow.BannerTitle != "" {
			background := themeRow.BannerBackground
			if background == "" {
				background = models.DefaultBannerBackground
			}
			theme.Banners = append(theme.Banners, models.Banner{
				ID:         index + 1,
				Title:      themeRow.BannerTitle,
				Subtitle:   themeRow.BannerSubtitle,
				Background: background,
				Image:      models.DefaultBannerImageGlyph,
				ImageURL:   themeRow.BannerImages,
			})
		}
		index++
	}

	return theme
}
