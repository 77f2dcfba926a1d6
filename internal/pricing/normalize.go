package pricing

import (
	"strings"

	"github.com/nubian-marketplace/catalog-service/internal/domain"
)

// NormalizeProductPayload converts a UI-shaped form payload into the
// persistence shape. It never fails: missing prices default to 0 so the
// same code path can feed live previews of incomplete forms. Callers must
// run ValidateProductPayload before persisting the result.
func NormalizeProductPayload(payload domain.ProductFormPayload, productType domain.ProductType) domain.Product {
	out := domain.Product{
		ProductType:  productType,
		Name:         strings.TrimSpace(payload.Name),
		Description:  strings.TrimSpace(payload.Description),
		Category:     strings.TrimSpace(payload.Category),
		Images:       payload.Images,
		NubianMarkup: payload.NubianMarkup.Or(domain.DefaultMarkupPercent),
		IsActive:     payload.IsActive == nil || *payload.IsActive,
	}

	// Copy-through fields stay absent when absent; defaulting them would
	// pollute the stored document.
	out.Merchant = payload.Merchant
	if score, ok := payload.PriorityScore.Get(); ok {
		out.PriorityScore = &score
	}
	out.Featured = payload.Featured
	if len(payload.Sizes) > 0 {
		out.Sizes = payload.Sizes
	}
	if len(payload.Colors) > 0 {
		out.Colors = payload.Colors
	}

	switch productType {
	case domain.ProductTypeWithVariants:
		normalizeVariantProduct(&out, payload)
	default:
		normalizeSimpleProduct(&out, payload)
	}
	return out
}

func normalizeSimpleProduct(out *domain.Product, payload domain.ProductFormPayload) {
	price := payload.MerchantPrice
	if _, ok := price.Get(); !ok {
		price = payload.Price // deprecated alias
	}
	merchantPrice := price.Or(0)
	mirror := merchantPrice

	out.MerchantPrice = &merchantPrice
	out.Price = &mirror
	stock := 0
	if payload.Stock != nil {
		stock = *payload.Stock
	}
	out.Stock = &stock

	// Scrub variant data left over from a prior form state.
	out.Variants = nil
	out.Attributes = nil
}

func normalizeVariantProduct(out *domain.Product, payload domain.ProductFormPayload) {
	def := payload.DefaultVariantMerchantPrice

	out.Attributes = payload.Attributes
	if out.Attributes == nil {
		out.Attributes = []domain.AttributeDef{}
	}

	out.Variants = make([]domain.ProductVariant, 0, len(payload.Variants))
	for _, v := range payload.Variants {
		out.Variants = append(out.Variants, normalizeVariant(v, def, out.NubianMarkup))
	}

	// A variant product never carries top-level pricing or stock, even
	// when the form submits stale simple-product values.
	out.MerchantPrice = nil
	out.Price = nil
	out.Stock = nil
}

func normalizeVariant(v domain.FormVariant, def domain.OptionalNumber, productMarkup float64) domain.ProductVariant {
	merchantPrice := 0.0
	if resolved := ResolveVariantPrice(v.MerchantPrice, def); resolved.OK {
		merchantPrice = resolved.Price
	} else if own, ok := v.MerchantPrice.Get(); ok {
		// Present but nonpositive and no usable default: keep the typed
		// value so validation findings match what would be stored.
		merchantPrice = own
	} else if d, ok := def.Get(); ok {
		merchantPrice = d
	}

	images := v.Images
	if images == nil {
		images = []string{}
	}

	attrs := map[string]string(v.Attributes)
	if attrs == nil {
		attrs = map[string]string{}
	}

	return domain.ProductVariant{
		ID:            v.ID, // kept for updates, empty for inserts
		SKU:           v.SKU,
		Attributes:    attrs,
		MerchantPrice: merchantPrice,
		Price:         merchantPrice,
		NubianMarkup:  v.NubianMarkup.Or(productMarkup),
		Stock:         v.Stock,
		Images:        images,
		IsActive:      v.IsActive == nil || *v.IsActive,
	}
}
