package events

import (
	"time"

	"github.com/nubian-marketplace/catalog-service/internal/domain"
)

// Published on the product-events topic.
type ProductEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"` // product.created | product.updated
	ProductID string          `json:"product_id"`
	Product   *domain.Product `json:"product"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
)

// OrderCreatedEvent arrives from the order service.
type OrderCreatedEvent struct {
	EventID     string      `json:"event_id"`
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	RequestID   string      `json:"request_id"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku,omitempty"` // set for variant products
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// StockDeductionFailedEvent is the compensation signal back to the order
// service when an order item cannot be fulfilled.
type StockDeductionFailedEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku,omitempty"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
