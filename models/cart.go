package models

// CartItem represents one aggregated cart line keyed by product + selected options
type CartItem struct {
	Key           string                   `json:"id"`
	ProductID     int                      `json:"productId"`
	Name          string                   `json:"name"`
	Price         float64                  `json:"price"`         // Unit price frozen at add time
	OriginalPrice float64                  `json:"originalPrice"` // Unit list price frozen at add time
	Image         string                   `json:"image"`
	Category      string                   `json:"category"`
	Variants      map[string]VariantOption `json:"variants"`
	Quantity      int                      `json:"quantity"`
}

// Cart is the full cart state of one browsing session
type Cart struct {
	Items []CartItem `json:"items"`
}

// Find returns the index of the line with the given key, or -1
func (c Cart) Find(key string) int {
	for i, item := range c.Items {
		if item.Key == key {
			return i
		}
	}
	return -1
}

// CartSummary is the cart as returned by the JSON API
type CartSummary struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Savings   float64    `json:"savings"`
	ItemCount int        `json:"itemCount"`
}

// AddToCartRequest is the body of POST /api/cart/items.
// Variants maps a variant type to the chosen option key.
type AddToCartRequest struct {
	ProductID int               `json:"productId"`
	Variants  map[string]string `json:"variants"`
}

// UpdateQuantityRequest is the body of PUT /api/cart/items/{key}
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
