// Package pricing implements the variant product pricing rules: price
// resolution with its three-tier precedence, payload validation, and
// normalization of form payloads into the persistence shape. Everything
// here is pure; callers own persistence and presentation.
package pricing

import (
	"github.com/nubian-marketplace/catalog-service/internal/domain"
)

// PriceSource tags where a resolved price came from. The tag is load
// bearing: the form renders "uses default price" hints from it and the
// validator treats SourceMissing as the trigger for a pricing error.
type PriceSource string

const (
	SourceCustom  PriceSource = "custom"
	SourceDefault PriceSource = "default"
	SourceMissing PriceSource = "missing"
)

// ResolvedPrice is the outcome of precedence lookup for one variant.
// Price is unset when Source is SourceMissing.
type ResolvedPrice struct {
	Price  float64
	OK     bool
	Source PriceSource
}

// ResolveVariantPrice applies the pricing precedence for a single variant:
// the variant's own price when it is present and positive, else the
// product-level default when present and positive, else missing. A zero or
// negative price is a present value but never wins precedence.
func ResolveVariantPrice(own, def domain.OptionalNumber) ResolvedPrice {
	if v, ok := own.Get(); ok && v > 0 {
		return ResolvedPrice{Price: v, OK: true, Source: SourceCustom}
	}
	if v, ok := def.Get(); ok && v > 0 {
		return ResolvedPrice{Price: v, OK: true, Source: SourceDefault}
	}
	return ResolvedPrice{Source: SourceMissing}
}

// FinalPrice applies the marketplace markup percentage on top of a
// merchant price.
func FinalPrice(merchantPrice, markupPercent float64) float64 {
	return merchantPrice * (1 + markupPercent/100)
}

// MinVariantFinalPrice returns the lowest marked-up price across all
// variants that resolve to a price, for "starting at" badges. Variants
// without their own markup fall back to fallbackMarkup. Returns 0 when no
// variant resolves; an empty catalog row is a display concern, not an
// error.
func MinVariantFinalPrice(variants []domain.FormVariant, def domain.OptionalNumber, fallbackMarkup float64) float64 {
	min := 0.0
	found := false
	for _, v := range variants {
		resolved := ResolveVariantPrice(v.MerchantPrice, def)
		if !resolved.OK {
			continue
		}
		final := FinalPrice(resolved.Price, v.NubianMarkup.Or(fallbackMarkup))
		if !found || final < min {
			min = final
			found = true
		}
	}
	return min
}
