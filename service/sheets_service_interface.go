package service

import "context"

// SheetsServiceInterface defines the contract for reading spreadsheet ranges
type SheetsServiceInterface interface {
	// GetValues returns the cells of readRange as strings, row by row.
	// Trailing empty cells of a row are omitted by the API.
	GetValues(ctx context.Context, sheetID string, readRange string) ([][]string, error)
}
