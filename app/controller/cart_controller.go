package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sheet-storefront/models"
	"sheet-storefront/pricing"
	"sheet-storefront/repository"
	"sheet-storefront/service"
)

var (
	// errProductNotFound is returned when a cart request names a product missing from the catalog
	errProductNotFound  = errors.New("product not found")
	errCartItemNotFound = errors.New("cart item not found")
)

// cartItemsPrefix is the path prefix of the per-line cart endpoints
const cartItemsPrefix = "/api/cart/items/"

// variantFieldPrefix prefixes the form fields carrying variant choices, e.g. variant_color
const variantFieldPrefix = "variant_"

// CartController handles HTTP requests for the session cart
type CartController struct {
	storefront service.StorefrontServiceInterface
	store      repository.CatalogStoreInterface
	sessions   *SessionManager
}

// NewCartController creates a new CartController
func NewCartController(
	storefront service.StorefrontServiceInterface,
	store repository.CatalogStoreInterface,
	sessions *SessionManager,
) *CartController {
	return &CartController{
		storefront: storefront,
		store:      store,
		sessions:   sessions,
	}
}

// addItem resolves the request against the session's catalog and adds one unit to the cart
func (c *CartController) addItem(r *http.Request, session *models.Session, req models.AddToCartRequest) (*models.Session, models.CartItem, error) {
	sheetID := sheetIDOf(session)
	if sheetID == "" {
		return nil, models.CartItem{}, errNoSheetConfigured
	}
	if err := c.storefront.EnsureFresh(r.Context(), sheetID); err != nil {
		log.Printf("⚠️  addItem: sheet=%s: %v", sheetID, err)
	}

	product, ok := c.store.Catalog(sheetID).FindProduct(req.ProductID)
	if !ok {
		return nil, models.CartItem{}, fmt.Errorf("%w: %d", errProductNotFound, req.ProductID)
	}
	sel, err := pricing.ResolveSelection(product, req.Variants)
	if err != nil {
		return nil, models.CartItem{}, err
	}

	var item models.CartItem
	updated, err := c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		cart, added, err := pricing.AddToCart(s.Cart, product, sel)
		if err != nil {
			return err
		}
		s.Cart, item = cart, added
		return nil
	})
	if err != nil {
		return nil, models.CartItem{}, err
	}
	log.Printf("🛒 Added %s to cart of session %s (quantity %d)", item.Key, session.ID, item.Quantity)
	return updated, item, nil
}

func (c *CartController) setQuantity(r *http.Request, session *models.Session, key string, quantity int) (*models.Session, error) {
	return c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		cart, err := pricing.SetQuantity(s.Cart, key, quantity)
		if err != nil {
			return err
		}
		s.Cart = cart
		return nil
	})
}

func (c *CartController) removeItem(r *http.Request, session *models.Session, key string) (*models.Session, error) {
	return c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		s.Cart = pricing.RemoveItem(s.Cart, key)
		return nil
	})
}

func cartErrorStatus(err error) int {
	if errors.Is(err, errProductNotFound) || errors.Is(err, errCartItemNotFound) {
		return http.StatusNotFound
	}
	return errorStatus(err)
}

// GetCart handles GET /api/cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetCart")
		return
	}
	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ GetCart: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, pricing.Summarize(session.Cart))
}

// AddItem handles POST /api/cart/items
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "AddItem")
		return
	}

	var req models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ AddItem: Invalid request body: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ AddItem: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	updated, item, err := c.addItem(r, session, req)
	if err != nil {
		log.Printf("❌ AddItem: %v", err)
		writeError(w, cartErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
		"cart": pricing.Summarize(updated.Cart),
	})
}

// CartItem handles PUT and DELETE /api/cart/items/{key}
func (c *CartController) CartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodDelete {
		methodNotAllowed(w, r, "CartItem")
		return
	}

	key, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), cartItemsPrefix))
	if err != nil || key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusBadRequest, "invalid cart item key")
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ CartItem: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	if r.Method == http.MethodDelete {
		updated, err := c.removeItem(r, session, key)
		if err != nil {
			log.Printf("❌ RemoveItem: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, pricing.Summarize(updated.Cart))
		return
	}

	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateQuantity: Invalid request body: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		if s.Cart.Find(key) < 0 {
			return errCartItemNotFound
		}
		cart, err := pricing.SetQuantity(s.Cart, key, req.Quantity)
		if err != nil {
			return err
		}
		s.Cart = cart
		return nil
	})
	if err != nil {
		log.Printf("❌ UpdateQuantity: %v", err)
		writeError(w, cartErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pricing.Summarize(updated.Cart))
}

// redirectToCart sends a form post back to the cart section, carrying an optional notice
func redirectToCart(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/#cart"
	if notice != "" {
		target = "/?notice=" + url.QueryEscape(notice) + "#cart"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// AddItemForm handles POST /cart/add from the server-rendered page
func (c *CartController) AddItemForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "AddItemForm")
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
	req := models.AddToCartRequest{ProductID: productID, Variants: map[string]string{}}
	for field, values := range r.PostForm {
		if strings.HasPrefix(field, variantFieldPrefix) && len(values) > 0 {
			req.Variants[strings.TrimPrefix(field, variantFieldPrefix)] = values[0]
		}
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ AddItemForm: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if _, _, err := c.addItem(r, session, req); err != nil {
		log.Printf("❌ AddItemForm: %v", err)
		if errors.Is(err, pricing.ErrIncompleteSelection) {
			redirectToCart(w, r, "Please select all options before adding to cart.")
			return
		}
		redirectToCart(w, r, err.Error())
		return
	}
	redirectToCart(w, r, "")
}

// UpdateItemForm handles POST /cart/update from the server-rendered page
func (c *CartController) UpdateItemForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "UpdateItemForm")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(r.PostForm.Get("quantity"))
	if err != nil {
		redirectToCart(w, r, "Quantity must be a whole number.")
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ UpdateItemForm: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if _, err := c.setQuantity(r, session, r.PostForm.Get("key"), quantity); err != nil {
		log.Printf("❌ UpdateItemForm: %v", err)
		redirectToCart(w, r, err.Error())
		return
	}
	redirectToCart(w, r, "")
}

// RemoveItemForm handles POST /cart/remove from the server-rendered page
func (c *CartController) RemoveItemForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "RemoveItemForm")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ RemoveItemForm: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if _, err := c.removeItem(r, session, r.PostForm.Get("key")); err != nil {
		log.Printf("❌ RemoveItemForm: %v", err)
		redirectToCart(w, r, err.Error())
		return
	}
	redirectToCart(w, r, "")
}
