package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nubian-marketplace/catalog-service/internal/service"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CompensationProducer publishes the failure signal back to the order
// service when a deduction cannot be applied.
type CompensationProducer interface {
	PublishStockDeductionFailed(orderID, productID, sku string, quantity int, reason string) error
}

type KafkaConsumer struct {
	reader               *kafka.Reader
	catalog              *service.CatalogService
	logger               *zap.Logger
	ctx                  context.Context
	cancel               context.CancelFunc
	compensationProducer CompensationProducer
}

func NewKafkaConsumer(brokers []string, groupID, topic string, catalog *service.CatalogService, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // explicit commits only
		StartOffset:    kafka.FirstOffset,
	})

	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaConsumer{
		reader:  reader,
		catalog: catalog,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (kc *KafkaConsumer) Start() {
	kc.logger.Info("Kafka consumer started", zap.String("topic", kc.reader.Config().Topic))
	go kc.consume()
}

func (kc *KafkaConsumer) consume() {
	defer kc.reader.Close()

	for {
		msg, err := kc.reader.FetchMessage(kc.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				kc.logger.Info("Kafka consumer stopped")
				return
			}
			kc.logger.Error("Error reading message", zap.Error(err))
			continue
		}

		if err := kc.processMessage(msg); err != nil {
			kc.logger.Error("Error processing message",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			continue
		}

		if err := kc.reader.CommitMessages(kc.ctx, msg); err != nil {
			kc.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) processMessage(msg kafka.Message) error {
	kc.logger.Info("Processing message",
		zap.String("topic", msg.Topic),
		zap.String("key", string(msg.Key)),
		zap.Int64("offset", msg.Offset))

	var event OrderCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return kc.handleOrderCreatedEvent(event)
}

func (kc *KafkaConsumer) handleOrderCreatedEvent(event OrderCreatedEvent) error {
	ctx := context.Background()

	kc.logger.Info("Processing order created event",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.Int("items_count", len(event.Items)))

	for _, item := range event.Items {
		kc.logger.Info("Deducting stock",
			zap.String("product_id", item.ProductID),
			zap.String("sku", item.SKU),
			zap.Int("quantity", item.Quantity))

		result, err := kc.catalog.DeductStock(ctx, item.ProductID, item.SKU, item.Quantity)
		if err != nil {
			kc.logger.Error("Failed to deduct stock",
				zap.String("product_id", item.ProductID),
				zap.String("sku", item.SKU),
				zap.Int("quantity", item.Quantity),
				zap.String("order_id", event.OrderID),
				zap.Error(err))

			if kc.compensationProducer != nil {
				reason := "stock_insufficient"
				switch {
				case errors.Is(err, service.ErrProductNotFound):
					reason = "product_not_found"
				case errors.Is(err, service.ErrVariantNotFound):
					reason = "variant_not_found"
				}

				if cerr := kc.compensationProducer.PublishStockDeductionFailed(
					event.OrderID, item.ProductID, item.SKU, item.Quantity, reason); cerr != nil {
					kc.logger.Error("Failed to publish compensation event", zap.Error(cerr))
				}
			}

			return fmt.Errorf("stock deduction failed for product %s: %w", item.ProductID, err)
		}

		kc.logger.Info("Stock deducted for order item",
			zap.String("product_id", item.ProductID),
			zap.String("sku", item.SKU),
			zap.Int("previous_stock", result.PreviousStock),
			zap.Int("new_stock", result.NewStock),
			zap.String("order_id", event.OrderID))
	}

	kc.logger.Info("Order processing completed",
		zap.String("order_id", event.OrderID),
		zap.String("request_id", event.RequestID))

	return nil
}

func (kc *KafkaConsumer) Stop() {
	kc.logger.Info("Stopping Kafka consumer")
	kc.cancel()
}

// SetCompensationProducer injects the compensation publisher at runtime.
func (kc *KafkaConsumer) SetCompensationProducer(p CompensationProducer) {
	kc.compensationProducer = p
}
