package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nubian-marketplace/catalog-service/internal/domain"
	"github.com/nubian-marketplace/catalog-service/internal/service"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

func NewProductHandler(catalog *service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, verr.Result)
			return
		}

		h.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create product",
		})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, verr.Result)
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}

		h.logger.Error("Failed to update product",
			zap.String("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update product",
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}

		h.logger.Error("Failed to get product",
			zap.String("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get product",
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ValidateProduct runs validation without persisting anything. The form
// calls it while the user edits, so invalid payloads answer 200 with the
// error list rather than an error status.
func (h *ProductHandler) ValidateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	c.JSON(http.StatusOK, h.catalog.ValidatePayload(req))
}

// PreviewPrices returns per-variant resolved prices and the "starting at"
// aggregate for the form's badges.
func (h *ProductHandler) PreviewPrices(c *gin.Context) {
	var payload domain.ProductFormPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	c.JSON(http.StatusOK, h.catalog.PreviewPricing(payload))
}

func (h *ProductHandler) DeductStock(c *gin.Context) {
	productID := c.Param("id")

	var req domain.DeductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.catalog.DeductStock(c.Request.Context(), productID, req.SKU, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		if errors.Is(err, service.ErrVariantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Variant not found",
			})
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Insufficient stock",
				"available": result.PreviousStock,
				"requested": req.Quantity,
			})
			return
		}

		h.logger.Error("Failed to deduct stock",
			zap.String("product_id", productID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to deduct stock",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
