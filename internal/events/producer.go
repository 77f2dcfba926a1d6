package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nubian-marketplace/catalog-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaProducer(brokers string, topic string, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaProducer{
		writer: writer,
		logger: logger,
	}
}

func (p *KafkaProducer) PublishProductCreated(product *domain.Product) error {
	return p.publishProductEvent(EventTypeProductCreated, product)
}

func (p *KafkaProducer) PublishProductUpdated(product *domain.Product) error {
	return p.publishProductEvent(EventTypeProductUpdated, product)
}

func (p *KafkaProducer) publishProductEvent(eventType string, product *domain.Product) error {
	event := ProductEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		ProductID: product.ProductID,
		Product:   product,
		Timestamp: time.Now(),
	}

	if err := p.publish(event.EventID, event); err != nil {
		p.logger.Error("Failed to publish product event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", eventType),
			zap.Error(err))
		return err
	}

	p.logger.Info("Product event published",
		zap.String("event_id", event.EventID),
		zap.String("event_type", eventType),
		zap.String("product_id", product.ProductID))

	return nil
}

func (p *KafkaProducer) PublishStockDeductionFailed(orderID, productID, sku string, quantity int, reason string) error {
	event := StockDeductionFailedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		ProductID: productID,
		SKU:       sku,
		Quantity:  quantity,
		Reason:    reason,
		Timestamp: time.Now(),
	}

	if err := p.publish(event.EventID, event); err != nil {
		p.logger.Error("Failed to publish compensation event",
			zap.String("event_id", event.EventID),
			zap.String("order_id", orderID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Compensation event published",
		zap.String("event_id", event.EventID),
		zap.String("order_id", orderID),
		zap.String("product_id", productID))

	return nil
}

func (p *KafkaProducer) publish(key string, event any) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
