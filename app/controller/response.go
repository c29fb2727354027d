package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sheet-storefront/pricing"
	"sheet-storefront/service"
)

// errNoSheetConfigured is returned by API endpoints when the session has no usable sheet link
var errNoSheetConfigured = errors.New("no spreadsheet link configured, set one at /admin")

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	var apiErr *service.SheetsAPIError
	switch {
	case errors.Is(err, errNoSheetConfigured),
		errors.Is(err, service.ErrAPIKeyRequired),
		errors.Is(err, pricing.ErrIncompleteSelection),
		errors.Is(err, pricing.ErrUnknownVariant),
		errors.Is(err, pricing.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoData), errors.Is(err, service.ErrCatalogNotLoaded):
		return http.StatusNotFound
	case errors.Is(err, service.ErrImageNotAllowed):
		return http.StatusForbidden
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, handler string) {
	log.Printf("❌ %s: Method not allowed: %s", handler, r.Method)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
