package utils

import "testing"

func TestExtractSheetID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC-_9x/edit#gid=0", "1AbC-_9x"},
		{"https://docs.google.com/spreadsheets/d/abc123", "abc123"},
		{"https://example.com/sheet.xlsx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractSheetID(tt.in); got != tt.want {
			t.Errorf("ExtractSheetID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsHTTPURL(t *testing.T) {
	if !IsHTTPURL("https://cdn/logo.png") || !IsHTTPURL("HTTP://x") {
		t.Error("IsHTTPURL: want true for http(s) links")
	}
	if IsHTTPURL("🛍️") || IsHTTPURL("ftp://x") {
		t.Error("IsHTTPURL: want false for glyphs and other schemes")
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://docs.google.com/spreadsheets/d/x/edit") {
		t.Error("IsValidURL: want true")
	}
	for _, s := range []string{"", "not a url", "/relative/path"} {
		if IsValidURL(s) {
			t.Errorf("IsValidURL(%q): want false", s)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{99.999, "$100.00"},
		{-2, "-$2.00"},
		{1234.5, "$1234.50"},
		{1000000, "$1000000.00"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatModifier(5); got != "+$5.00" {
		t.Errorf("FormatModifier(5) = %q", got)
	}
	if got := FormatModifier(0); got != "" {
		t.Errorf("FormatModifier(0) = %q, want empty", got)
	}
}
