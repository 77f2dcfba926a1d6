package pricing

import (
	"fmt"
	"strings"

	"github.com/nubian-marketplace/catalog-service/internal/domain"
)

// ValidateVariantPricing checks a variant list against a product-level
// default price. Missing prices produce one aggregate message for the
// whole list so a large variant set does not flood the form; negative
// prices and negative stock are reported per row (1-based) because the
// user has to find that specific row to fix it.
func ValidateVariantPricing(variants []domain.FormVariant, def domain.OptionalNumber) domain.ValidationResult {
	var errs []string

	needsDefault := 0
	for _, v := range variants {
		if p, ok := v.MerchantPrice.Get(); !ok || p <= 0 {
			needsDefault++
		}
	}
	if needsDefault > 0 {
		if d, ok := def.Get(); !ok || d <= 0 {
			if needsDefault == len(variants) {
				errs = append(errs, "all variants have no price: set a default variant price or a price on each variant")
			} else {
				errs = append(errs, fmt.Sprintf("%d variants have no price: set a default variant price or a price on each variant", needsDefault))
			}
		}
	}

	for i, v := range variants {
		if p, ok := v.MerchantPrice.Get(); ok && p < 0 {
			errs = append(errs, fmt.Sprintf("variant %d: merchant price cannot be negative", i+1))
		}
		if v.Stock < 0 {
			errs = append(errs, fmt.Sprintf("variant %d: stock cannot be negative", i+1))
		}
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateProductPayload checks a form payload for completeness before it
// is normalized and submitted. It never stops at the first problem.
func ValidateProductPayload(payload domain.ProductFormPayload, productType domain.ProductType) domain.ValidationResult {
	var errs []string

	if strings.TrimSpace(payload.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(payload.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(payload.Category) == "" {
		errs = append(errs, "category is required")
	}
	if len(payload.Images) == 0 {
		errs = append(errs, "at least one product image is required")
	}

	switch productType {
	case domain.ProductTypeSimple:
		// A simple product carrying variant rows means the type flag and
		// the payload disagree; refuse rather than silently pick a side.
		if len(payload.Variants) > 0 {
			errs = append(errs, "variants are not allowed on a simple product")
		}
		price := payload.MerchantPrice
		if _, ok := price.Get(); !ok {
			price = payload.Price
		}
		if p, ok := price.Get(); !ok || p <= 0 {
			errs = append(errs, "merchant price must be greater than zero")
		}
		if payload.Stock == nil {
			errs = append(errs, "stock is required")
		} else if *payload.Stock < 0 {
			errs = append(errs, "stock cannot be negative")
		}

	case domain.ProductTypeWithVariants:
		if len(payload.Attributes) == 0 {
			errs = append(errs, "at least one attribute is required for a variant product")
		}
		if len(payload.Variants) == 0 {
			errs = append(errs, "at least one variant is required")
		} else {
			res := ValidateVariantPricing(payload.Variants, payload.DefaultVariantMerchantPrice)
			errs = append(errs, res.Errors...)
		}

	default:
		errs = append(errs, fmt.Sprintf("unknown product type %q", productType))
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
