package templates

import (
	"html/template"
	"testing"
)

func TestParse(t *testing.T) {
	tmpl, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, name := range []string{Storefront, Admin, Print} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s not found", name)
		}
	}
}

func TestBackground(t *testing.T) {
	tests := []struct {
		value, fallback string
		want            template.CSS
	}{
		{"#fff", "#000", "#fff"},
		{"#4f46e5, #7c3aed", "#000", "linear-gradient(to right, #4f46e5, #7c3aed)"},
		{"", "#111", "#111"},
		{"red; background-image: url(x)", "#111", "#111"},
		{"rgb(1, 2, 3)", "#111", "rgb(1, 2, 3)"},
	}
	for _, tt := range tests {
		if got := background(tt.value, tt.fallback); got != tt.want {
			t.Errorf("background(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestColor(t *testing.T) {
	if got := color("#374151", "#000"); got != "#374151" {
		t.Errorf("color = %q", got)
	}
	if got := color("#fff, #000", "#111"); got != "#111" {
		t.Errorf("gradient is not a color: %q", got)
	}
	if got := color("</style>", "#111"); got != "#111" {
		t.Errorf("unsafe value: %q", got)
	}
}

func TestImageURL(t *testing.T) {
	if got := imageURL("https://cdn.example.com/a b.png", "thumb"); got != "/images/optimized?url=https%3A%2F%2Fcdn.example.com%2Fa+b.png&size=thumb" {
		t.Errorf("imageURL = %q", got)
	}
	if got := imageURL("🎯", "thumb"); got != "" {
		t.Errorf("glyph must not be proxied: %q", got)
	}
}
