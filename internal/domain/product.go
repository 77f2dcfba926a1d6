package domain

import (
	"time"
)

// ProductType selects which half of the form payload is active.
type ProductType string

const (
	ProductTypeSimple       ProductType = "simple"
	ProductTypeWithVariants ProductType = "with_variants"
)

// DefaultMarkupPercent is the marketplace margin applied when neither the
// variant nor the product specifies one.
const DefaultMarkupPercent = 10

// AttributeDef declares one attribute axis of a variant product and the
// values a variant may pick from, e.g. {Name: "size", Values: ["S","M","L"]}.
type AttributeDef struct {
	Name   string   `dynamodbav:"name" json:"name"`
	Type   string   `dynamodbav:"type,omitempty" json:"type,omitempty"`
	Values []string `dynamodbav:"values" json:"values"`
}

// FormVariant is one SKU row as edited in the storefront form. Pricing
// fields are tri-state: the user may have typed a number, cleared the
// field, or never touched it.
type FormVariant struct {
	ID            string         `json:"_id,omitempty"`
	SKU           string         `json:"sku"`
	Attributes    AttributeSet   `json:"attributes"`
	MerchantPrice OptionalNumber `json:"merchantPrice"`
	NubianMarkup  OptionalNumber `json:"nubianMarkup"`
	Stock         int            `json:"stock"`
	Images        []string       `json:"images,omitempty"`
	IsActive      *bool          `json:"isActive,omitempty"`
}

// ProductFormPayload is the UI-shaped product as submitted by the
// storefront, before any persistence-shape enforcement. Which field group
// is meaningful is decided by the ProductType passed alongside it, not by
// the payload shape itself.
type ProductFormPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`

	// Simple-product fields. Price is a deprecated alias of MerchantPrice
	// still sent by older form builds.
	MerchantPrice OptionalNumber `json:"merchantPrice"`
	NubianMarkup  OptionalNumber `json:"nubianMarkup"`
	Price         OptionalNumber `json:"price"`
	Stock         *int           `json:"stock,omitempty"`

	// Variant-product fields.
	Attributes []AttributeDef `json:"attributes,omitempty"`
	Variants   []FormVariant  `json:"variants,omitempty"`

	// UI-only cross-cutting fields. SamePriceForAllVariants is a form
	// hint and is never persisted.
	DefaultVariantMerchantPrice OptionalNumber `json:"defaultVariantMerchantPrice"`
	SamePriceForAllVariants     bool           `json:"samePriceForAllVariants,omitempty"`

	// Optional copy-through fields, persisted only when present.
	Merchant      string         `json:"merchant,omitempty"`
	PriorityScore OptionalNumber `json:"priorityScore"`
	Featured      *bool          `json:"featured,omitempty"`
	Sizes         []string       `json:"sizes,omitempty"`
	Colors        []string       `json:"colors,omitempty"`
	IsActive      *bool          `json:"isActive,omitempty"`
}

// ProductVariant is the persisted shape of a variant: every field the
// store requires is concrete, attributes are a plain mapping, and the
// legacy price field mirrors the merchant price.
type ProductVariant struct {
	ID            string            `dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	SKU           string            `dynamodbav:"sku" json:"sku"`
	Attributes    map[string]string `dynamodbav:"attributes" json:"attributes"`
	MerchantPrice float64           `dynamodbav:"merchant_price" json:"merchantPrice"`
	Price         float64           `dynamodbav:"price" json:"price"`
	NubianMarkup  float64           `dynamodbav:"nubian_markup" json:"nubianMarkup"`
	Stock         int               `dynamodbav:"stock" json:"stock"`
	Images        []string          `dynamodbav:"images" json:"images"`
	IsActive      bool              `dynamodbav:"is_active" json:"isActive"`
}

// Product is the persistence-shaped product. For simple products the
// top-level pricing fields are always concrete; for variant products they
// are always nil, since pricing and stock live on each variant.
type Product struct {
	ProductID   string      `dynamodbav:"product_id" json:"product_id"`
	ProductType ProductType `dynamodbav:"product_type" json:"productType"`
	Name        string      `dynamodbav:"name" json:"name"`
	Description string      `dynamodbav:"description" json:"description"`
	Category    string      `dynamodbav:"category" json:"category"`
	Images      []string    `dynamodbav:"images" json:"images"`

	MerchantPrice *float64 `dynamodbav:"merchant_price,omitempty" json:"merchantPrice,omitempty"`
	Price         *float64 `dynamodbav:"price,omitempty" json:"price,omitempty"`
	NubianMarkup  float64  `dynamodbav:"nubian_markup" json:"nubianMarkup"`
	Stock         *int     `dynamodbav:"stock,omitempty" json:"stock,omitempty"`

	Attributes []AttributeDef   `dynamodbav:"attributes,omitempty" json:"attributes,omitempty"`
	Variants   []ProductVariant `dynamodbav:"variants,omitempty" json:"variants,omitempty"`

	Merchant      string   `dynamodbav:"merchant,omitempty" json:"merchant,omitempty"`
	PriorityScore *float64 `dynamodbav:"priority_score,omitempty" json:"priorityScore,omitempty"`
	Featured      *bool    `dynamodbav:"featured,omitempty" json:"featured,omitempty"`
	Sizes         []string `dynamodbav:"sizes,omitempty" json:"sizes,omitempty"`
	Colors        []string `dynamodbav:"colors,omitempty" json:"colors,omitempty"`
	IsActive      bool     `dynamodbav:"is_active" json:"isActive"`

	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// ValidationResult accumulates every violated rule instead of stopping at
// the first, so a form can surface all problems at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// CreateProductRequest wraps a form payload with its type discriminator.
type CreateProductRequest struct {
	ProductType ProductType        `json:"productType" binding:"required"`
	Payload     ProductFormPayload `json:"payload" binding:"required"`
}

// DeductStockRequest deducts stock from a product. SKU selects the variant
// for variant products and must be empty for simple ones.
type DeductStockRequest struct {
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// StockDeductionResponse reports the outcome of a stock deduction.
type StockDeductionResponse struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku,omitempty"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Deducted      int    `json:"deducted"`
}

// VariantPricePreview is the per-row pricing badge the form renders while
// the user edits variants.
type VariantPricePreview struct {
	SKU           string   `json:"sku"`
	MerchantPrice *float64 `json:"merchantPrice,omitempty"`
	FinalPrice    *float64 `json:"finalPrice,omitempty"`
	Source        string   `json:"source"`
}

// PricePreviewResponse carries the per-variant badges plus the
// "starting at" aggregate.
type PricePreviewResponse struct {
	Variants      []VariantPricePreview `json:"variants"`
	MinFinalPrice float64               `json:"minFinalPrice"`
}
