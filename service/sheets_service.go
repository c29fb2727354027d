package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	// ErrAPIKeyRequired is returned when no Sheets API key is configured
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrNoData is returned when a range holds no rows
	ErrNoData = errors.New("No data found in the sheet. Check if the sheet has data and the range is correct.")
)

// SheetsAPIError is a non-2xx answer of the Sheets API
type SheetsAPIError struct {
	StatusCode int
	Message    string // error.message of the response body, when present
}

func (e *SheetsAPIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// SheetsService reads spreadsheet values through the Google Sheets API
type SheetsService struct {
	apiKey string
	client *sheets.Service
}

// NewSheetsService creates a new SheetsService.
// endpoint overrides the API base URL when non-empty. httpClient is optional and,
// when given, is used as is (the API key is then expected to be applied by it).
func NewSheetsService(ctx context.Context, apiKey, endpoint string, httpClient *http.Client) (*SheetsService, error) {
	apiKey = strings.TrimSpace(apiKey)
	s := &SheetsService{apiKey: apiKey}
	if apiKey == "" {
		log.Printf("⚠️  NewSheetsService: GOOGLE_SHEETS_API_KEY is not set, catalog fetches will fail")
		return s, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	client, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	s.client = client
	return s, nil
}

// Ensure SheetsService implements SheetsServiceInterface
var _ SheetsServiceInterface = (*SheetsService)(nil)

// GetValues fetches one range of a spreadsheet
func (s *SheetsService) GetValues(ctx context.Context, sheetID string, readRange string) ([][]string, error) {
	if s.apiKey == "" || s.client == nil {
		return nil, ErrAPIKeyRequired
	}

	log.Printf("📥 GetValues: sheet=%s range=%s", sheetID, readRange)
	resp, err := s.client.Spreadsheets.Values.Get(sheetID, readRange).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			log.Printf("❌ GetValues: sheet=%s range=%s status=%d: %s", sheetID, readRange, apiErr.Code, apiErr.Message)
			return nil, &SheetsAPIError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		log.Printf("❌ GetValues: sheet=%s range=%s: %v", sheetID, readRange, err)
		return nil, fmt.Errorf("failed to fetch sheet values: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, ErrNoData
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		values[i] = cells
	}
	return values, nil
}
