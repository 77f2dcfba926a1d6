package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nubian-marketplace/catalog-service/internal/domain"
	"github.com/nubian-marketplace/catalog-service/internal/repository"
	"github.com/nubian-marketplace/catalog-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	products map[string]*domain.Product
}

func (m *memStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	cp := *p
	m.products[p.ProductID] = &cp
	return nil
}

func (m *memStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if _, ok := m.products[p.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	m.products[p.ProductID] = &cp
	return nil
}

func (m *memStore) DeductStock(ctx context.Context, id string, qty int) (int, int, error) {
	p, ok := m.products[id]
	if !ok {
		return 0, 0, repository.ErrProductNotFound
	}
	if p.Stock == nil {
		return 0, 0, repository.ErrNoProductStock
	}
	prev := *p.Stock
	if prev < qty {
		return 0, prev, repository.ErrInsufficientStock
	}
	next := prev - qty
	p.Stock = &next
	return next, prev, nil
}

func (m *memStore) DeductVariantStock(ctx context.Context, id, sku string, qty int) (int, int, error) {
	p, ok := m.products[id]
	if !ok {
		return 0, 0, repository.ErrProductNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].SKU != sku {
			continue
		}
		prev := p.Variants[i].Stock
		if prev < qty {
			return 0, prev, repository.ErrInsufficientStock
		}
		p.Variants[i].Stock = prev - qty
		return p.Variants[i].Stock, prev, nil
	}
	return 0, 0, repository.ErrVariantNotFound
}

func newTestRouter() (*gin.Engine, *memStore) {
	gin.SetMode(gin.TestMode)

	store := &memStore{products: make(map[string]*domain.Product)}
	catalog := service.NewCatalogService(store, nil, zap.NewNop())
	h := NewProductHandler(catalog, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/products", h.CreateProduct)
	v1.PUT("/products/:id", h.UpdateProduct)
	v1.GET("/products/:id", h.GetProduct)
	v1.POST("/products/validate", h.ValidateProduct)
	v1.POST("/products/price-preview", h.PreviewPrices)
	v1.POST("/products/:id/deduct", h.DeductStock)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func variantCreateBody() map[string]any {
	return map[string]any{
		"productType": "with_variants",
		"payload": map[string]any{
			"name":        "T-shirt",
			"description": "Cotton t-shirt",
			"category":    "apparel",
			"images":      []string{"https://cdn.example/shirt.jpg"},
			"attributes": []map[string]any{
				{"name": "size", "values": []string{"S", "M"}},
			},
			"variants": []map[string]any{
				{"sku": "S1", "attributes": map[string]string{"size": "S"}, "merchantPrice": 100, "stock": 10},
				{"sku": "S2", "attributes": map[string]string{"size": "M"}, "merchantPrice": "", "stock": 5},
			},
			"defaultVariantMerchantPrice": 80,
		},
	}
}

func TestCreateProduct_EndToEnd(t *testing.T) {
	router, store := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", variantCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	require.Len(t, product.Variants, 2)
	assert.Equal(t, 80.0, product.Variants[1].MerchantPrice, "empty string price must resolve to the default")
	assert.Equal(t, product.Variants[1].MerchantPrice, product.Variants[1].Price)
	assert.Nil(t, product.MerchantPrice)
	assert.Contains(t, store.products, product.ProductID)
}

func TestCreateProduct_ValidationFailureReturns422(t *testing.T) {
	router, _ := newTestRouter()

	body := variantCreateBody()
	payload := body["payload"].(map[string]any)
	payload["defaultVariantMerchantPrice"] = ""
	payload["variants"] = []map[string]any{
		{"sku": "A", "attributes": map[string]string{"size": "S"}, "stock": 1},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestCreateProduct_MalformedJSON(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	router, _ := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct_RoundTrip(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", variantCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	body := variantCreateBody()
	payload := body["payload"].(map[string]any)
	payload["name"] = "T-shirt v2"

	rec = doJSON(t, router, http.MethodPut, "/api/v1/products/"+created.ProductID, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ProductID, updated.ProductID)
	assert.Equal(t, "T-shirt v2", updated.Name)
}

func TestValidateEndpoint_ReportsErrorsWith200(t *testing.T) {
	router, _ := newTestRouter()

	body := variantCreateBody()
	payload := body["payload"].(map[string]any)
	payload["name"] = "  "

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "name is required")
}

func TestPricePreviewEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	payload := variantCreateBody()["payload"]
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products/price-preview", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview domain.PricePreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	require.Len(t, preview.Variants, 2)
	assert.Equal(t, "custom", preview.Variants[0].Source)
	assert.Equal(t, "default", preview.Variants[1].Source)
	assert.InDelta(t, 88.0, preview.MinFinalPrice, 1e-9)
}

func TestDeductStock_Variant(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", variantCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/"+created.ProductID+"/deduct",
		map[string]any{"sku": "S1", "quantity": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.StockDeductionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 6, result.NewStock)
}

func TestDeductStock_InsufficientReturns400(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", variantCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/"+created.ProductID+"/deduct",
		map[string]any{"sku": "S2", "quantity": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
