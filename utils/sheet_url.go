package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var sheetIDRegex = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID returns the spreadsheet id of a Google Sheets link:
// https://docs.google.com/spreadsheets/d/<id>/edit#gid=0 -> <id>.
// An empty result means the storefront is not configured.
func ExtractSheetID(sheetURL string) string {
	matches := sheetIDRegex.FindStringSubmatch(sheetURL)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// IsHTTPURL reports whether s is an absolute http(s) URL
func IsHTTPURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsValidURL reports whether s parses as an absolute URL with a host
func IsValidURL(s string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
