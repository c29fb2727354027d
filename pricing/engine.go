package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"sheet-storefront/models"
)

// DefaultSelectionToken stands in for the option list in the key of a product bought without options
const DefaultSelectionToken = "default"

var (
	// ErrIncompleteSelection is returned when a variant type of the product has no selected option
	ErrIncompleteSelection = errors.New("incomplete variant selection")
	// ErrUnknownVariant is returned when a selection names a type or option the product does not define
	ErrUnknownVariant = errors.New("unknown variant option")
)

// Selection maps a variant type to the chosen option
type Selection map[string]models.VariantOption

// modifierSum adds the price deltas of every selected option
func modifierSum(sel Selection) decimal.Decimal {
	sum := decimal.Zero
	for _, opt := range sel {
		sum = sum.Add(decimal.NewFromFloat(opt.PriceModifier))
	}
	return sum
}

// ComputePrice returns the effective unit price and list price of a product
// for a selection: base price plus the sum of the selected options' deltas.
// The result does not depend on the order of the selection.
func ComputePrice(p models.Product, sel Selection) (price float64, originalPrice float64) {
	delta := modifierSum(sel)
	price = decimal.NewFromFloat(p.Price).Add(delta).InexactFloat64()
	originalPrice = decimal.NewFromFloat(p.OriginalPrice).Add(delta).InexactFloat64()
	return price, originalPrice
}

// Savings returns how much the selection saves against the list price
func Savings(p models.Product, sel Selection) float64 {
	price, original := ComputePrice(p, sel)
	return decimal.NewFromFloat(original).Sub(decimal.NewFromFloat(price)).InexactFloat64()
}

// ValidateSelection checks that sel picks exactly one known option for every
// variant type of the product and nothing else
func ValidateSelection(p models.Product, sel Selection) error {
	for variantType, opt := range sel {
		if _, ok := p.Variants.Option(variantType, opt.Value); !ok {
			return fmt.Errorf("%w: %s=%s", ErrUnknownVariant, variantType, opt.Value)
		}
	}
	for _, variantType := range p.Variants.Types() {
		if _, ok := sel[variantType]; !ok {
			return fmt.Errorf("%w: missing %s", ErrIncompleteSelection, variantType)
		}
	}
	return nil
}

// ResolveSelection maps submitted option keys (variant type -> option value)
// to the product's options. Blank choices are ignored so that ValidateSelection
// reports them as missing.
func ResolveSelection(p models.Product, choices map[string]string) (Selection, error) {
	sel := Selection{}
	for variantType, value := range choices {
		if strings.TrimSpace(value) == "" {
			continue
		}
		opt, ok := p.Variants.Option(variantType, value)
		if !ok {
			return nil, fmt.Errorf("%w: %s=%s", ErrUnknownVariant, variantType, value)
		}
		sel[variantType] = opt
	}
	return sel, nil
}

// CartKey builds the identity of a cart line: the product id followed by the
// sorted option values, e.g. "7-black-xl", or "7-default" without options
func CartKey(productID int, sel Selection) string {
	values := make([]string, 0, len(sel))
	for _, opt := range sel {
		values = append(values, opt.Value)
	}
	sort.Strings(values)

	joined := strings.Join(values, "-")
	if joined == "" {
		joined = DefaultSelectionToken
	}
	return fmt.Sprintf("%d-%s", productID, joined)
}
