package pricing

import (
	"strings"
	"testing"

	"github.com/nubian-marketplace/catalog-service/internal/domain"
)

func validSimplePayload() domain.ProductFormPayload {
	stock := 5
	return domain.ProductFormPayload{
		Name:          "Leather bag",
		Description:   "Hand-stitched leather bag",
		Category:      "bags",
		Images:        []string{"https://cdn.example/bag.jpg"},
		MerchantPrice: domain.Num(120),
		Stock:         &stock,
	}
}

func validVariantPayload() domain.ProductFormPayload {
	return domain.ProductFormPayload{
		Name:        "T-shirt",
		Description: "Cotton t-shirt",
		Category:    "apparel",
		Images:      []string{"https://cdn.example/shirt.jpg"},
		Attributes:  []domain.AttributeDef{{Name: "size", Values: []string{"S", "M"}}},
		Variants: []domain.FormVariant{
			{SKU: "S1", MerchantPrice: domain.Num(100), Stock: 10, Attributes: domain.AttributeSet{"size": "S"}},
			{SKU: "S2", Stock: 5, Attributes: domain.AttributeSet{"size": "M"}},
		},
		DefaultVariantMerchantPrice: domain.Num(80),
	}
}

func hasErrorContaining(res domain.ValidationResult, substr string) bool {
	for _, e := range res.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidateVariantPricing_AllPricesCovered(t *testing.T) {
	variants := validVariantPayload().Variants
	res := ValidateVariantPricing(variants, domain.Num(80))
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestValidateVariantPricing_AllVariantsMissingPrice(t *testing.T) {
	variants := []domain.FormVariant{{SKU: "A", Stock: 1}, {SKU: "B", Stock: 1}}
	res := ValidateVariantPricing(variants, domain.NoNum())
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected a single aggregate error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "all variants have no price") {
		t.Fatalf("unexpected wording: %q", res.Errors[0])
	}
}

func TestValidateVariantPricing_SomeVariantsMissingPrice(t *testing.T) {
	variants := []domain.FormVariant{
		{SKU: "A", MerchantPrice: domain.Num(100), Stock: 1},
		{SKU: "B", Stock: 1},
		{SKU: "C", MerchantPrice: domain.Num(0), Stock: 1},
	}
	res := ValidateVariantPricing(variants, domain.NoNum())
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected a single aggregate error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "2 variants have no price") {
		t.Fatalf("expected count-qualified wording, got %q", res.Errors[0])
	}
}

func TestValidateVariantPricing_DefaultCoversMissingPrices(t *testing.T) {
	variants := []domain.FormVariant{{SKU: "A", Stock: 1}, {SKU: "B", Stock: 1}}
	res := ValidateVariantPricing(variants, domain.Num(50))
	if !res.Valid {
		t.Fatalf("expected default price to satisfy all variants, got %v", res.Errors)
	}
}

func TestValidateVariantPricing_NegativePricePerRow(t *testing.T) {
	variants := []domain.FormVariant{
		{SKU: "A", MerchantPrice: domain.Num(100), Stock: 1},
		{SKU: "B", MerchantPrice: domain.Num(-3), Stock: 1},
	}
	res := ValidateVariantPricing(variants, domain.Num(50))
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !hasErrorContaining(res, "variant 2: merchant price cannot be negative") {
		t.Fatalf("expected row-indexed negative price error, got %v", res.Errors)
	}
}

func TestValidateVariantPricing_NegativeStockComposesWithPricing(t *testing.T) {
	variants := []domain.FormVariant{{SKU: "A", MerchantPrice: domain.Num(100), Stock: -5}}
	res := ValidateVariantPricing(variants, domain.NoNum())
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !hasErrorContaining(res, "variant 1: stock cannot be negative") {
		t.Fatalf("expected stock error independent of pricing, got %v", res.Errors)
	}
}

func TestValidateProductPayload_SimpleValid(t *testing.T) {
	res := ValidateProductPayload(validSimplePayload(), domain.ProductTypeSimple)
	if !res.Valid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
}

func TestValidateProductPayload_CommonFieldsAccumulate(t *testing.T) {
	payload := validSimplePayload()
	payload.Name = "   "
	payload.Description = ""
	payload.Category = ""
	payload.Images = nil
	res := ValidateProductPayload(payload, domain.ProductTypeSimple)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	for _, want := range []string{"name is required", "description is required", "category is required", "at least one product image is required"} {
		if !hasErrorContaining(res, want) {
			t.Fatalf("missing %q in %v", want, res.Errors)
		}
	}
}

func TestValidateProductPayload_SimpleMissingPrice(t *testing.T) {
	payload := validSimplePayload()
	payload.MerchantPrice = domain.NoNum()
	payload.Price = domain.NoNum()
	res := ValidateProductPayload(payload, domain.ProductTypeSimple)
	if res.Valid || !hasErrorContaining(res, "merchant price must be greater than zero") {
		t.Fatalf("expected price error, got %v", res.Errors)
	}
}

func TestValidateProductPayload_SimpleLegacyPriceAccepted(t *testing.T) {
	payload := validSimplePayload()
	payload.MerchantPrice = domain.NoNum()
	payload.Price = domain.Num(99)
	res := ValidateProductPayload(payload, domain.ProductTypeSimple)
	if !res.Valid {
		t.Fatalf("legacy price field should satisfy the check, got %v", res.Errors)
	}
}

func TestValidateProductPayload_SimpleStockRules(t *testing.T) {
	payload := validSimplePayload()
	payload.Stock = nil
	res := ValidateProductPayload(payload, domain.ProductTypeSimple)
	if res.Valid || !hasErrorContaining(res, "stock is required") {
		t.Fatalf("expected missing stock error, got %v", res.Errors)
	}
	neg := -1
	payload.Stock = &neg
	res = ValidateProductPayload(payload, domain.ProductTypeSimple)
	if res.Valid || !hasErrorContaining(res, "stock cannot be negative") {
		t.Fatalf("expected negative stock error, got %v", res.Errors)
	}
}

func TestValidateProductPayload_SimpleRejectsVariantRows(t *testing.T) {
	payload := validSimplePayload()
	payload.Variants = []domain.FormVariant{{SKU: "V1", Stock: 1}}
	res := ValidateProductPayload(payload, domain.ProductTypeSimple)
	if res.Valid || !hasErrorContaining(res, "variants are not allowed on a simple product") {
		t.Fatalf("expected type/shape mismatch rejection, got %v", res.Errors)
	}
}

func TestValidateProductPayload_VariantValid(t *testing.T) {
	res := ValidateProductPayload(validVariantPayload(), domain.ProductTypeWithVariants)
	if !res.Valid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
}

func TestValidateProductPayload_VariantRequiresAttributesAndVariants(t *testing.T) {
	payload := validVariantPayload()
	payload.Attributes = nil
	payload.Variants = nil
	res := ValidateProductPayload(payload, domain.ProductTypeWithVariants)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !hasErrorContaining(res, "at least one attribute is required") || !hasErrorContaining(res, "at least one variant is required") {
		t.Fatalf("expected attribute and variant errors, got %v", res.Errors)
	}
}

func TestValidateProductPayload_VariantPricingErrorsAppendVerbatim(t *testing.T) {
	payload := validVariantPayload()
	payload.DefaultVariantMerchantPrice = domain.NoNum()
	payload.Variants = []domain.FormVariant{
		{SKU: "A", Stock: -2},
		{SKU: "B", Stock: 1},
	}
	res := ValidateProductPayload(payload, domain.ProductTypeWithVariants)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	inner := ValidateVariantPricing(payload.Variants, payload.DefaultVariantMerchantPrice)
	for _, e := range inner.Errors {
		if !hasErrorContaining(res, e) {
			t.Fatalf("variant pricing error %q not propagated in %v", e, res.Errors)
		}
	}
}

func TestValidateProductPayload_UnknownType(t *testing.T) {
	res := ValidateProductPayload(validSimplePayload(), domain.ProductType("bundle"))
	if res.Valid || !hasErrorContaining(res, "unknown product type") {
		t.Fatalf("expected unknown type rejection, got %v", res.Errors)
	}
}
