package models

import "time"

// Session is the browser-session scoped state: the configured sheet link, the cart and the wishlist
type Session struct {
	ID        string    `json:"id"`
	SheetURL  string    `json:"sheetUrl"`
	Cart      Cart      `json:"cart"`
	Wishlist  []int     `json:"wishlist,omitempty"` // Product ids in the order they were added
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToggleWishlist adds productID to the wishlist or removes it when present,
// and reports whether the product is wishlisted afterwards
func (s *Session) ToggleWishlist(productID int) bool {
	for i, id := range s.Wishlist {
		if id == productID {
			s.Wishlist = append(s.Wishlist[:i:i], s.Wishlist[i+1:]...)
			return false
		}
	}
	s.Wishlist = append(s.Wishlist, productID)
	return true
}

// WishlistSet returns the wishlist as a lookup set
func (s *Session) WishlistSet() map[int]bool {
	set := make(map[int]bool, len(s.Wishlist))
	for _, id := range s.Wishlist {
		set[id] = true
	}
	return set
}

// SheetStatus describes the fetch state of one spreadsheet
type SheetStatus struct {
	SheetID          string    `json:"sheetId"`
	Loading          bool      `json:"loading"`
	CatalogError     string    `json:"catalogError,omitempty"`
	ThemeError       string    `json:"themeError,omitempty"`
	ProductCount     int       `json:"productCount"`
	HasTheme         bool      `json:"hasTheme"`
	CatalogFetchedAt time.Time `json:"catalogFetchedAt,omitempty"`
}

// ProductPage is one filtered page of the catalog
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"` // 1-based
	TotalPages int       `json:"totalPages"`
	PerPage    int       `json:"perPage"`
	Category   string    `json:"category"`
	Query      string    `json:"query"`
}
