package controller

import (
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sheet-storefront/models"
	"sheet-storefront/pricing"
	"sheet-storefront/repository"
	"sheet-storefront/service"
	"sheet-storefront/templates"
)

// StorefrontController handles the shop page and the read-only catalog API
type StorefrontController struct {
	storefront service.StorefrontServiceInterface
	store      repository.CatalogStoreInterface
	export     service.ExportServiceInterface
	sessions   *SessionManager
	tmpl       *template.Template
}

// NewStorefrontController creates a new StorefrontController
func NewStorefrontController(
	storefront service.StorefrontServiceInterface,
	store repository.CatalogStoreInterface,
	export service.ExportServiceInterface,
	sessions *SessionManager,
	tmpl *template.Template,
) *StorefrontController {
	return &StorefrontController{
		storefront: storefront,
		store:      store,
		export:     export,
		sessions:   sessions,
		tmpl:       tmpl,
	}
}

// storefrontView is the data rendered by the shop page
type storefrontView struct {
	Theme      models.ThemeConfig
	Page       models.ProductPage
	Categories []models.Category
	Cart       models.CartSummary
	Wishlist   map[int]bool
	Status     models.SheetStatus
	Notice     string
}

// pageParam parses the 1-based page query parameter, defaulting to 1
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (c *StorefrontController) categories(sheetID string) []models.Category {
	if catalog := c.store.Catalog(sheetID); catalog != nil {
		return catalog.Categories.Categories
	}
	return []models.Category{{Name: models.AllCategory, Slug: "all"}}
}

// Index handles GET /
func (c *StorefrontController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "Index")
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ Index: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	sheetID := sheetIDOf(session)
	if sheetID == "" {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	// Fetch failures are recorded in the sheet status and rendered as a banner
	if err := c.storefront.EnsureFresh(r.Context(), sheetID); err != nil {
		log.Printf("⚠️  Index: sheet=%s: %v", sheetID, err)
	}

	query := r.URL.Query()
	view := storefrontView{
		Theme:      models.ResolveTheme(c.store.Theme(sheetID)),
		Page:       c.storefront.Browse(sheetID, query.Get("category"), strings.TrimSpace(query.Get("q")), pageParam(r)),
		Categories: c.categories(sheetID),
		Cart:       pricing.Summarize(session.Cart),
		Wishlist:   session.WishlistSet(),
		Status:     c.store.Status(sheetID),
		Notice:     query.Get("notice"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.tmpl.ExecuteTemplate(w, templates.Storefront, view); err != nil {
		log.Printf("❌ Index: failed to render page: %v", err)
	}
}

// resolveSheet loads the session and returns its sheet id, writing the JSON error itself on failure
func (c *StorefrontController) resolveSheet(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ %s: %v", handler, err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return "", false
	}
	sheetID := sheetIDOf(session)
	if sheetID == "" {
		writeError(w, errorStatus(errNoSheetConfigured), errNoSheetConfigured.Error())
		return "", false
	}
	return sheetID, true
}

// freshCatalog makes sure the sheet is loaded. A stale snapshot is still served
// when the refresh fails; only a sheet that never loaded is an error.
func (c *StorefrontController) freshCatalog(w http.ResponseWriter, r *http.Request, sheetID, handler string) (*models.Catalog, bool) {
	err := c.storefront.EnsureFresh(r.Context(), sheetID)
	catalog := c.store.Catalog(sheetID)
	if catalog != nil {
		if err != nil {
			log.Printf("⚠️  %s: serving cached catalog for sheet=%s: %v", handler, sheetID, err)
		}
		return catalog, true
	}
	if err == nil {
		err = service.ErrCatalogNotLoaded
	}
	log.Printf("❌ %s: sheet=%s: %v", handler, sheetID, err)
	writeError(w, errorStatus(err), err.Error())
	return nil, false
}

// GetProducts handles GET /api/catalog/products?category=&q=&page=
func (c *StorefrontController) GetProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetProducts")
		return
	}
	sheetID, ok := c.resolveSheet(w, r, "GetProducts")
	if !ok {
		return
	}
	if _, ok := c.freshCatalog(w, r, sheetID, "GetProducts"); !ok {
		return
	}

	query := r.URL.Query()
	page := c.storefront.Browse(sheetID, query.Get("category"), strings.TrimSpace(query.Get("q")), pageParam(r))
	writeJSON(w, http.StatusOK, page)
}

// GetCategories handles GET /api/catalog/categories
func (c *StorefrontController) GetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetCategories")
		return
	}
	sheetID, ok := c.resolveSheet(w, r, "GetCategories")
	if !ok {
		return
	}
	catalog, ok := c.freshCatalog(w, r, sheetID, "GetCategories")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.Categories)
}

// GetTheme handles GET /api/catalog/theme. A missing theme yields the defaults.
func (c *StorefrontController) GetTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetTheme")
		return
	}
	sheetID, ok := c.resolveSheet(w, r, "GetTheme")
	if !ok {
		return
	}
	if err := c.storefront.EnsureFresh(r.Context(), sheetID); err != nil {
		log.Printf("⚠️  GetTheme: sheet=%s: %v", sheetID, err)
	}
	writeJSON(w, http.StatusOK, models.ResolveTheme(c.store.Theme(sheetID)))
}

// Refresh handles POST /api/catalog/refresh
func (c *StorefrontController) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Refresh")
		return
	}
	sheetID, ok := c.resolveSheet(w, r, "Refresh")
	if !ok {
		return
	}

	log.Printf("🔄 Refresh: reloading sheet=%s", sheetID)
	if err := c.storefront.Load(r.Context(), sheetID); err != nil {
		log.Printf("❌ Refresh: sheet=%s: %v", sheetID, err)
		writeJSON(w, errorStatus(err), map[string]interface{}{
			"error":  err.Error(),
			"status": c.store.Status(sheetID),
		})
		return
	}
	writeJSON(w, http.StatusOK, c.store.Status(sheetID))
}

// GetStatus handles GET /api/catalog/status
func (c *StorefrontController) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetStatus")
		return
	}
	sheetID, ok := c.resolveSheet(w, r, "GetStatus")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.store.Status(sheetID))
}

// PrintCatalog handles GET /catalog/print?sheet=<id>&token=<t>, the page rendered into PDF exports.
// Only URLs signed by the export service are served.
func (c *StorefrontController) PrintCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "PrintCatalog")
		return
	}
	sheetID := r.URL.Query().Get("sheet")
	if sheetID == "" {
		http.Error(w, "sheet parameter is required", http.StatusBadRequest)
		return
	}
	if !c.export.VerifyPrintToken(sheetID, r.URL.Query().Get("token")) {
		log.Printf("⚠️  PrintCatalog: sheet=%s: missing or invalid token", sheetID)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	html, err := c.export.RenderCatalogHTML(sheetID)
	if err != nil {
		log.Printf("❌ PrintCatalog: sheet=%s: %v", sheetID, err)
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
