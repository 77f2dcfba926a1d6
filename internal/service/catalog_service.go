package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nubian-marketplace/catalog-service/internal/domain"
	"github.com/nubian-marketplace/catalog-service/internal/pricing"
	"github.com/nubian-marketplace/catalog-service/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError carries the accumulated validation messages of a
// rejected payload up to the transport layer.
type ValidationError struct {
	Result domain.ValidationResult
}

func (e *ValidationError) Error() string {
	return "invalid product payload: " + strings.Join(e.Result.Errors, "; ")
}

// ProductStore is the persistence surface the catalog service needs.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeductStock(ctx context.Context, productID string, quantity int) (newStock int, previousStock int, err error)
	DeductVariantStock(ctx context.Context, productID, sku string, quantity int) (newStock int, previousStock int, err error)
}

// EventPublisher publishes product lifecycle events. Publishing is
// best-effort: a broker outage must not fail a write that already landed.
type EventPublisher interface {
	PublishProductCreated(product *domain.Product) error
	PublishProductUpdated(product *domain.Product) error
}

type CatalogService struct {
	store     ProductStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewCatalogService(store ProductStore, publisher EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateProduct validates the form payload, normalizes it into the
// persistence shape and stores it.
func (s *CatalogService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if res := pricing.ValidateProductPayload(req.Payload, req.ProductType); !res.Valid {
		return nil, &ValidationError{Result: res}
	}

	product := pricing.NormalizeProductPayload(req.Payload, req.ProductType)
	product.ProductID = uuid.NewString()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if err := s.store.CreateProduct(ctx, &product); err != nil {
		s.logger.Error("Failed to save product",
			zap.String("product_id", product.ProductID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ProductID),
		zap.String("product_type", string(product.ProductType)),
		zap.Int("variants", len(product.Variants)))

	if s.publisher != nil {
		if err := s.publisher.PublishProductCreated(&product); err != nil {
			s.logger.Error("Failed to publish product created event",
				zap.String("product_id", product.ProductID),
				zap.Error(err))
		}
	}

	return &product, nil
}

// UpdateProduct runs the same validate-normalize pipeline against an
// existing product. Variant _id values in the payload are preserved by the
// normalizer, so downstream consumers keep their identity links.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID string, req domain.CreateProductRequest) (*domain.Product, error) {
	existing, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if res := pricing.ValidateProductPayload(req.Payload, req.ProductType); !res.Valid {
		return nil, &ValidationError{Result: res}
	}

	product := pricing.NormalizeProductPayload(req.Payload, req.ProductType)
	product.ProductID = existing.ProductID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := s.store.UpdateProduct(ctx, &product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		s.logger.Error("Failed to update product",
			zap.String("product_id", product.ProductID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product updated",
		zap.String("product_id", product.ProductID),
		zap.String("product_type", string(product.ProductType)))

	if s.publisher != nil {
		if err := s.publisher.PublishProductUpdated(&product); err != nil {
			s.logger.Error("Failed to publish product updated event",
				zap.String("product_id", product.ProductID),
				zap.Error(err))
		}
	}

	return &product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ValidatePayload exposes validation alone, for the form's live checks.
func (s *CatalogService) ValidatePayload(req domain.CreateProductRequest) domain.ValidationResult {
	return pricing.ValidateProductPayload(req.Payload, req.ProductType)
}

// PreviewPricing resolves every variant's effective price for display.
func (s *CatalogService) PreviewPricing(payload domain.ProductFormPayload) domain.PricePreviewResponse {
	def := payload.DefaultVariantMerchantPrice
	fallbackMarkup := payload.NubianMarkup.Or(domain.DefaultMarkupPercent)

	previews := make([]domain.VariantPricePreview, 0, len(payload.Variants))
	for _, v := range payload.Variants {
		preview := domain.VariantPricePreview{SKU: v.SKU, Source: string(pricing.SourceMissing)}
		if resolved := pricing.ResolveVariantPrice(v.MerchantPrice, def); resolved.OK {
			price := resolved.Price
			final := pricing.FinalPrice(price, v.NubianMarkup.Or(fallbackMarkup))
			preview.MerchantPrice = &price
			preview.FinalPrice = &final
			preview.Source = string(resolved.Source)
		}
		previews = append(previews, preview)
	}

	return domain.PricePreviewResponse{
		Variants:      previews,
		MinFinalPrice: pricing.MinVariantFinalPrice(payload.Variants, def, fallbackMarkup),
	}
}

// DeductStock deducts stock from a product. An empty SKU targets a simple
// product's top-level stock; a SKU targets that variant.
func (s *CatalogService) DeductStock(ctx context.Context, productID, sku string, quantity int) (*domain.StockDeductionResponse, error) {
	var (
		newStock      int
		previousStock int
		err           error
	)
	if sku == "" {
		newStock, previousStock, err = s.store.DeductStock(ctx, productID, quantity)
	} else {
		newStock, previousStock, err = s.store.DeductVariantStock(ctx, productID, sku, quantity)
	}

	result := &domain.StockDeductionResponse{
		ProductID:     productID,
		SKU:           sku,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Deducted:      quantity,
	}

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return result, ErrProductNotFound
		case errors.Is(err, repository.ErrVariantNotFound), errors.Is(err, repository.ErrNoProductStock):
			return result, ErrVariantNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			return result, ErrInsufficientStock
		default:
			return nil, err
		}
	}

	s.logger.Info("Stock deducted",
		zap.String("product_id", productID),
		zap.String("sku", sku),
		zap.Int("previous_stock", previousStock),
		zap.Int("deducted", quantity),
		zap.Int("new_stock", newStock))

	return result, nil
}
