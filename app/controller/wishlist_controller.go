package controller

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/service"
)

// wishlistPrefix is the path prefix of the per-product wishlist endpoint
const wishlistPrefix = "/api/wishlist/"

// WishlistController handles the session wishlist
type WishlistController struct {
	storefront service.StorefrontServiceInterface
	store      repository.CatalogStoreInterface
	sessions   *SessionManager
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(
	storefront service.StorefrontServiceInterface,
	store repository.CatalogStoreInterface,
	sessions *SessionManager,
) *WishlistController {
	return &WishlistController{
		storefront: storefront,
		store:      store,
		sessions:   sessions,
	}
}

type wishlistResponse struct {
	ProductIDs []int            `json:"productIds"`
	Products   []models.Product `json:"products"`
}

type toggleResponse struct {
	ProductID  int   `json:"productId"`
	Wishlisted bool  `json:"wishlisted"`
	ProductIDs []int `json:"productIds"`
}

// toggle flips one product in the session wishlist after checking it exists in the session's catalog
func (c *WishlistController) toggle(r *http.Request, session *models.Session, productID int) (*models.Session, bool, error) {
	sheetID := sheetIDOf(session)
	if sheetID == "" {
		return nil, false, errNoSheetConfigured
	}
	if err := c.storefront.EnsureFresh(r.Context(), sheetID); err != nil {
		log.Printf("⚠️  toggleWishlist: sheet=%s: %v", sheetID, err)
	}
	if _, ok := c.store.Catalog(sheetID).FindProduct(productID); !ok {
		return nil, false, fmt.Errorf("%w: %d", errProductNotFound, productID)
	}

	var wishlisted bool
	updated, err := c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		wishlisted = s.ToggleWishlist(productID)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	log.Printf("💖 Wishlist: session %s product %d wishlisted=%t", session.ID, productID, wishlisted)
	return updated, wishlisted, nil
}

// GetWishlist handles GET /api/wishlist
func (c *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetWishlist")
		return
	}
	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ GetWishlist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	resp := wishlistResponse{ProductIDs: session.Wishlist, Products: []models.Product{}}
	if resp.ProductIDs == nil {
		resp.ProductIDs = []int{}
	}
	// Ids missing from the current catalog are kept but not resolved
	if catalog := c.store.Catalog(sheetIDOf(session)); catalog != nil {
		for _, id := range session.Wishlist {
			if product, ok := catalog.FindProduct(id); ok {
				resp.Products = append(resp.Products, product)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ToggleWishlist handles POST /api/wishlist/{productId}
func (c *WishlistController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "ToggleWishlist")
		return
	}
	productID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, wishlistPrefix))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ ToggleWishlist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	updated, wishlisted, err := c.toggle(r, session, productID)
	if err != nil {
		log.Printf("❌ ToggleWishlist: %v", err)
		writeError(w, cartErrorStatus(err), err.Error())
		return
	}
	ids := updated.Wishlist
	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, toggleResponse{ProductID: productID, Wishlisted: wishlisted, ProductIDs: ids})
}

// ToggleWishlistForm handles POST /wishlist/toggle from the server-rendered page
func (c *WishlistController) ToggleWishlistForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "ToggleWishlistForm")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	productID, err := strconv.Atoi(r.PostForm.Get("productId"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ ToggleWishlistForm: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if _, _, err := c.toggle(r, session, productID); err != nil {
		log.Printf("❌ ToggleWishlistForm: %v", err)
		http.Redirect(w, r, "/?notice="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
