package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"sheet-storefront/models"
)

// ErrInvalidQuantity is returned for negative quantities
var ErrInvalidQuantity = errors.New("quantity must not be negative")

// Every operation below returns a new Cart and leaves its input untouched, so
// a reader holding the previous value never observes a half-applied change.

func cloneItems(items []models.CartItem) []models.CartItem {
	cloned := make([]models.CartItem, len(items))
	copy(cloned, items)
	return cloned
}

// AddToCart adds one unit of a product with the given selection.
// A line with the same key gets its quantity incremented; otherwise a new line
// is appended with prices resolved now and frozen for the life of the line.
func AddToCart(cart models.Cart, p models.Product, sel Selection) (models.Cart, models.CartItem, error) {
	if err := ValidateSelection(p, sel); err != nil {
		return cart, models.CartItem{}, err
	}

	key := CartKey(p.ID, sel)
	items := cloneItems(cart.Items)

	if i := cart.Find(key); i >= 0 {
		items[i].Quantity++
		return models.Cart{Items: items}, items[i], nil
	}

	price, originalPrice := ComputePrice(p, sel)
	variants := make(map[string]models.VariantOption, len(sel))
	for variantType, opt := range sel {
		variants[variantType] = opt
	}

	item := models.CartItem{
		Key:           key,
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         price,
		OriginalPrice: originalPrice,
		Image:         p.Image,
		Category:      p.Category,
		Variants:      variants,
		Quantity:      1,
	}
	items = append(items, item)
	return models.Cart{Items: items}, item, nil
}

// SetQuantity replaces the quantity of a line. Zero removes the line; there is
// no upper bound. Unknown keys leave the cart unchanged.
func SetQuantity(cart models.Cart, key string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return cart, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if quantity == 0 {
		return RemoveItem(cart, key), nil
	}

	items := cloneItems(cart.Items)
	if i := cart.Find(key); i >= 0 {
		items[i].Quantity = quantity
	}
	return models.Cart{Items: items}, nil
}

// RemoveItem deletes the line with the given key if present
func RemoveItem(cart models.Cart, key string) models.Cart {
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Key != key {
			items = append(items, item)
		}
	}
	return models.Cart{Items: items}
}

// CartTotal returns the sum of price x quantity over all lines
func CartTotal(cart models.Cart) float64 {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.InexactFloat64()
}

// CartSavings returns the sum of (original price - price) x quantity over all lines
func CartSavings(cart models.Cart) float64 {
	savings := decimal.Zero
	for _, item := range cart.Items {
		diff := decimal.NewFromFloat(item.OriginalPrice).Sub(decimal.NewFromFloat(item.Price))
		savings = savings.Add(diff.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return savings.InexactFloat64()
}

// CartItemCount returns the total number of units in the cart
func CartItemCount(cart models.Cart) int {
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count
}

// Summarize builds the API view of a cart
func Summarize(cart models.Cart) models.CartSummary {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartSummary{
		Items:     items,
		Total:     CartTotal(cart),
		Savings:   CartSavings(cart),
		ItemCount: CartItemCount(cart),
	}
}
