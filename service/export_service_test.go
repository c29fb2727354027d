package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tealeg/xlsx"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/templates"
)

func newTestExportService(t *testing.T) (*ExportService, *repository.CatalogStore) {
	t.Helper()
	tmpl, err := templates.Parse()
	if err != nil {
		t.Fatalf("templates.Parse: %v", err)
	}
	store := repository.NewCatalogStore()
	return NewExportService(store, tmpl, "http://localhost:8080", ""), store
}

func exportCatalog() models.Catalog {
	return models.Catalog{Products: []models.Product{
		{
			ID: 1, Name: "Headphones", Price: 99.99, OriginalPrice: 149.99, Category: "Electronics", Rating: 4.5,
			Variants: models.VariantCatalog{
				"color": {{Name: "Black", Value: "black"}, {Name: "White", Value: "white", PriceModifier: 20}},
			},
		},
		{ID: 2, Name: "Mug", Price: 8, Category: "Home"},
	}}
}

func TestExportXLSX(t *testing.T) {
	svc, store := newTestExportService(t)
	if _, err := svc.ExportXLSX("sheet"); !errors.Is(err, ErrCatalogNotLoaded) {
		t.Fatalf("err = %v, want ErrCatalogNotLoaded", err)
	}

	store.PublishCatalog("sheet", exportCatalog())
	data, err := svc.ExportXLSX("sheet")
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		t.Fatalf("OpenBinary: %v", err)
	}
	sheet := file.Sheets[0]
	if sheet.Name != "Products" || len(sheet.Rows) != 3 {
		t.Fatalf("sheet %q has %d rows, want 3", sheet.Name, len(sheet.Rows))
	}
	if got := sheet.Rows[0].Cells[1].Value; got != "Name" {
		t.Errorf("header = %q", got)
	}
	row := sheet.Rows[1].Cells
	if row[1].Value != "Headphones" || row[3].Value != "Electronics" {
		t.Errorf("row = %q %q", row[1].Value, row[3].Value)
	}
	if got := row[7].Value; got != "color: Black, White (+$20.00)" {
		t.Errorf("variants cell = %q", got)
	}
}

func TestRenderCatalogHTML(t *testing.T) {
	svc, store := newTestExportService(t)
	store.PublishCatalog("sheet", exportCatalog())
	store.PublishTheme("sheet", models.ThemeConfig{Logo: "🎧"})

	html, err := svc.RenderCatalogHTML("sheet")
	if err != nil {
		t.Fatalf("RenderCatalogHTML: %v", err)
	}
	for _, want := range []string{"Headphones", "$99.99", "$149.99", "White (+$20.00)", "🎧", "2 products"} {
		if !strings.Contains(html, want) {
			t.Errorf("print view missing %q", want)
		}
	}
}

func TestGeneratePDF_RequiresCatalog(t *testing.T) {
	svc, _ := newTestExportService(t)
	if _, err := svc.GeneratePDF(context.Background(), "sheet"); !errors.Is(err, ErrCatalogNotLoaded) {
		t.Errorf("err = %v, want ErrCatalogNotLoaded", err)
	}
}

func TestPrintToken(t *testing.T) {
	svc, _ := newTestExportService(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	token, err := svc.PrintToken("sheet")
	if err != nil {
		t.Fatalf("PrintToken: %v", err)
	}
	if !svc.VerifyPrintToken("sheet", token) {
		t.Error("fresh token must verify")
	}
	if svc.VerifyPrintToken("other", token) {
		t.Error("token is bound to its sheet")
	}
	if svc.VerifyPrintToken("sheet", "") {
		t.Error("empty token must be rejected")
	}

	restarted, _ := newTestExportService(t)
	restarted.now = svc.now
	if restarted.VerifyPrintToken("sheet", token) {
		t.Error("token signed with another key must be rejected")
	}

	now = now.Add(printTokenTTL + time.Second)
	if svc.VerifyPrintToken("sheet", token) {
		t.Error("expired token must be rejected")
	}
}
