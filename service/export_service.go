package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tealeg/xlsx"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/templates"
	"sheet-storefront/utils"
)

// ErrCatalogNotLoaded is returned when a sheet has no published catalog yet
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// ExportServiceInterface defines the contract for catalog downloads
type ExportServiceInterface interface {
	ExportXLSX(sheetID string) ([]byte, error)
	RenderCatalogHTML(sheetID string) (string, error)
	GeneratePDF(ctx context.Context, sheetID string) ([]byte, error)
	PrintToken(sheetID string) (string, error)
	VerifyPrintToken(sheetID, token string) bool
}

// printTokenTTL bounds how long a signed print URL stays usable
const printTokenTTL = 2 * time.Minute

// ExportService renders the cached catalog of a sheet as XLSX, printable HTML or PDF
type ExportService struct {
	store      repository.CatalogStoreInterface
	tmpl       *template.Template
	baseURL    string // Base URL chromedp loads the print view from (e.g., "http://localhost:8080")
	chromePath string
	printKey   []byte // Signs print URLs; regenerated on every start
	now        func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(store repository.CatalogStoreInterface, tmpl *template.Template, baseURL, chromePath string) *ExportService {
	return &ExportService{
		store:      store,
		tmpl:       tmpl,
		baseURL:    baseURL,
		chromePath: chromePath,
		printKey:   []byte(rand.Text()),
		now:        time.Now,
	}
}

// Ensure ExportService implements ExportServiceInterface
var _ ExportServiceInterface = (*ExportService)(nil)

// detectChromePath returns the configured Chrome/Chromium path, or the first common install found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// formatVariants flattens a variant catalog into "color: Black, White (+$20.00); size: S, M"
func formatVariants(variants models.VariantCatalog) string {
	groups := make([]string, 0, len(variants))
	for _, variantType := range variants.Types() {
		names := make([]string, 0, len(variants[variantType]))
		for _, opt := range variants[variantType] {
			name := opt.Name
			if opt.PriceModifier != 0 {
				name = fmt.Sprintf("%s (%s)", name, utils.FormatModifier(opt.PriceModifier))
			}
			names = append(names, name)
		}
		groups = append(groups, variantType+": "+strings.Join(names, ", "))
	}
	return strings.Join(groups, "; ")
}

// ExportXLSX writes the catalog of a sheet to a single-worksheet XLSX file
func (s *ExportService) ExportXLSX(sheetID string) ([]byte, error) {
	catalog := s.store.Catalog(sheetID)
	if catalog == nil {
		return nil, ErrCatalogNotLoaded
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create excel sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Price", "Category", "Rating", "Image", "Original Price", "Variants"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range catalog.Products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.OriginalPrice)
		row.AddCell().SetValue(formatVariants(p.Variants))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	log.Printf("✓ ExportXLSX: sheet=%s products=%d bytes=%d", sheetID, len(catalog.Products), buf.Len())
	return buf.Bytes(), nil
}

// RenderCatalogHTML renders the printable catalog page of a sheet
func (s *ExportService) RenderCatalogHTML(sheetID string) (string, error) {
	catalog := s.store.Catalog(sheetID)
	if catalog == nil {
		return "", ErrCatalogNotLoaded
	}

	data := struct {
		Theme       models.ThemeConfig
		Products    []models.Product
		GeneratedAt time.Time
	}{
		Theme:       models.ResolveTheme(s.store.Theme(sheetID)),
		Products:    catalog.Products,
		GeneratedAt: catalog.FetchedAt,
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, templates.Print, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// PrintToken signs a short-lived token that unlocks the print view of one sheet
func (s *ExportService) PrintToken(sheetID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": sheetID,
		"exp": now.Add(printTokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.printKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign print token: %w", err)
	}
	return token, nil
}

// VerifyPrintToken reports whether token was issued by PrintToken for sheetID and has not expired
func (s *ExportService) VerifyPrintToken(sheetID, token string) bool {
	if token == "" {
		return false
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.printKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return false
	}
	subject, err := parsed.Claims.GetSubject()
	return err == nil && subject == sheetID
}

// GeneratePDF prints the catalog page of a sheet to PDF with headless Chrome
func (s *ExportService) GeneratePDF(ctx context.Context, sheetID string) ([]byte, error) {
	if s.store.Catalog(sheetID) == nil {
		return nil, ErrCatalogNotLoaded
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	token, err := s.PrintToken(sheetID)
	if err != nil {
		return nil, err
	}
	renderURL := fmt.Sprintf("%s/catalog/print?sheet=%s&token=%s", s.baseURL, url.QueryEscape(sheetID), url.QueryEscape(token))
	log.Printf("🖨️  GeneratePDF: rendering print view of sheet %s", sheetID)

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			Promise.all([
				document.fonts.ready,
				Promise.all(Array.from(document.querySelectorAll('img')).map(img => new Promise(resolve => {
					if (img.complete) { resolve(); return; }
					const timeout = setTimeout(resolve, 5000);
					img.onload = img.onerror = () => { clearTimeout(timeout); resolve(); };
				})))
			]).then(() => true);
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✓ GeneratePDF: sheet=%s bytes=%d", sheetID, len(pdfBuf))
	return pdfBuf, nil
}
