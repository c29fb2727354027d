package router

import (
	"net/http"

	"sheet-storefront/app/controller"
)

type Controllers struct {
	Storefront *controller.StorefrontController
	Cart       *controller.CartController
	Admin      *controller.AdminController
	Export     *controller.ExportController
	Wishlist   *controller.WishlistController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Shop page
	mux.HandleFunc("/", controllers.Storefront.Index)

	// Catalog API
	mux.HandleFunc("/api/catalog/products", controllers.Storefront.GetProducts)
	mux.HandleFunc("/api/catalog/categories", controllers.Storefront.GetCategories)
	mux.HandleFunc("/api/catalog/theme", controllers.Storefront.GetTheme)
	mux.HandleFunc("/api/catalog/refresh", controllers.Storefront.Refresh)
	mux.HandleFunc("/api/catalog/status", controllers.Storefront.GetStatus)

	// Cart API - collection and per-line routes
	mux.HandleFunc("/api/cart", controllers.Cart.GetCart)
	mux.HandleFunc("/api/cart/items", controllers.Cart.AddItem)
	mux.HandleFunc("/api/cart/items/", controllers.Cart.CartItem)

	// Wishlist API
	mux.HandleFunc("/api/wishlist", controllers.Wishlist.GetWishlist)
	mux.HandleFunc("/api/wishlist/", controllers.Wishlist.ToggleWishlist)

	// Form posts from the shop page
	mux.HandleFunc("/cart/add", controllers.Cart.AddItemForm)
	mux.HandleFunc("/cart/update", controllers.Cart.UpdateItemForm)
	mux.HandleFunc("/cart/remove", controllers.Cart.RemoveItemForm)
	mux.HandleFunc("/wishlist/toggle", controllers.Wishlist.ToggleWishlistForm)

	// Sheet link configuration
	mux.HandleFunc("/admin", controllers.Admin.Admin)
	mux.HandleFunc("/admin/clear", controllers.Admin.Clear)

	// Downloads and images
	mux.HandleFunc("/catalog/export", controllers.Export.ExportCatalog)
	mux.HandleFunc("/catalog/print", controllers.Storefront.PrintCatalog)
	mux.HandleFunc("/images/optimized", controllers.Export.GetOptimizedImage)
}
