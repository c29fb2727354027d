package controller

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"sheet-storefront/service"
)

// ExportController handles catalog downloads and optimized image delivery
type ExportController struct {
	storefront service.StorefrontServiceInterface
	export     service.ExportServiceInterface
	images     service.ImageServiceInterface
	sessions   *SessionManager
}

// NewExportController creates a new ExportController
func NewExportController(
	storefront service.StorefrontServiceInterface,
	export service.ExportServiceInterface,
	images service.ImageServiceInterface,
	sessions *SessionManager,
) *ExportController {
	return &ExportController{
		storefront: storefront,
		export:     export,
		images:     images,
		sessions:   sessions,
	}
}

// ExportCatalog handles GET /catalog/export?format=xlsx|pdf
func (c *ExportController) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "ExportCatalog")
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		log.Printf("❌ ExportCatalog: Invalid format: %s", format)
		http.Error(w, "Invalid format. Must be one of: xlsx, pdf", http.StatusBadRequest)
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ ExportCatalog: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	sheetID := sheetIDOf(session)
	if sheetID == "" {
		http.Error(w, errNoSheetConfigured.Error(), errorStatus(errNoSheetConfigured))
		return
	}
	if err := c.storefront.EnsureFresh(r.Context(), sheetID); err != nil {
		log.Printf("⚠️  ExportCatalog: sheet=%s: %v", sheetID, err)
	}

	log.Printf("📥 ExportCatalog: sheet=%s format=%s", sheetID, format)

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "pdf":
		data, err = c.export.GeneratePDF(r.Context(), sheetID)
		contentType = "application/pdf"
	default:
		data, err = c.export.ExportXLSX(sheetID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		log.Printf("❌ ExportCatalog: %v", err)
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.`+format+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ ExportCatalog: Error writing response: %v", err)
	}
}

// GetOptimizedImage handles GET /images/optimized?url=<image url>&size=thumb|medium
func (c *ExportController) GetOptimizedImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetOptimizedImage")
		return
	}

	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		http.Error(w, "url parameter is required", http.StatusBadRequest)
		return
	}

	data, err := c.images.GetOptimized(r.Context(), imageURL, r.URL.Query().Get("size"))
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		log.Printf("❌ GetOptimizedImage: %v", err)
		http.Error(w, "Failed to load image", status)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
