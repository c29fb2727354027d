package templates

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"sheet-storefront/models"
	"sheet-storefront/utils"
)

//go:embed *.html
var files embed.FS

// Page template names
const (
	Storefront = "storefront.html"
	Admin      = "admin.html"
	Print      = "print.html"
)

var cssColorListRegex = regexp.MustCompile(`^[#a-zA-Z0-9,.%\s()-]+$`)

// background turns a theme color value into a CSS background.
// "a, b" becomes a left-to-right gradient; anything unsafe falls back to fallback.
func background(value, fallback string) template.CSS {
	value = strings.TrimSpace(value)
	if value == "" || !cssColorListRegex.MatchString(value) {
		value = fallback
	}
	if strings.Contains(value, ",") && !strings.Contains(value, "(") {
		return template.CSS("linear-gradient(to right, " + value + ")")
	}
	return template.CSS(value)
}

// color returns a single CSS color, or fallback when value is not a safe color
func color(value, fallback string) template.CSS {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, ",") || !cssColorListRegex.MatchString(value) {
		return template.CSS(fallback)
	}
	return template.CSS(value)
}

// imageURL routes remote images through the thumbnail proxy
func imageURL(raw, size string) string {
	if !utils.IsHTTPURL(raw) {
		return ""
	}
	return fmt.Sprintf("/images/optimized?url=%s&size=%s", url.QueryEscape(raw), size)
}

func pageNumbers(total int) []int {
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

var funcs = template.FuncMap{
	"formatPrice":    utils.FormatPrice,
	"formatModifier": utils.FormatModifier,
	"isURL":          utils.IsHTTPURL,
	"background":     background,
	"color":          color,
	"imageURL":       imageURL,
	"pageNumbers":    pageNumbers,
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
	"lineTotal":      func(item models.CartItem) float64 { return item.Price * float64(item.Quantity) },
	"hasSavings":     func(p models.Product) bool { return p.OriginalPrice > p.Price },
	"fullStars": func(rating float64) []struct{} {
		n := int(rating)
		if n < 0 {
			n = 0
		}
		return make([]struct{}, min(n, 5))
	},
}

// Parse parses every embedded page template
func Parse() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
