package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nubian-marketplace/catalog-service/internal/domain"
	pkgconfig "github.com/nubian-marketplace/catalog-service/pkg/config"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoProductStock    = errors.New("product does not carry top-level stock")
)

type ProductRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoDBClient(cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg), nil
}

func NewProductRepository(client *dynamodb.Client, tableName string) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(product_id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("product %s already exists", product.ProductID)
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return nil, ErrProductNotFound
	}

	var product domain.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// UpdateProduct replaces the stored product wholesale. The normalized
// payload is the full document, so a PutItem guarded on existence is
// simpler than a field-by-field update expression.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(product_id)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// DeductStock atomically deducts top-level stock on a simple product.
func (r *ProductRepository) DeductStock(ctx context.Context, productID string, quantity int) (newStock int, previousStock int, err error) {
	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	if product.Stock == nil {
		// Variant products keep stock on each variant.
		return 0, 0, ErrNoProductStock
	}
	previousStock = *product.Stock

	update := expression.Set(
		expression.Name("stock"),
		expression.Minus(
			expression.Name("stock"),
			expression.Value(quantity),
		),
	).Set(
		expression.Name("updated_at"),
		expression.Value(time.Now()),
	)

	// Only deduct when enough stock remains.
	condition := expression.GreaterThanEqual(
		expression.Name("stock"),
		expression.Value(quantity),
	)

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return 0, previousStock, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, previousStock, ErrInsufficientStock
		}
		return 0, previousStock, err
	}

	var updatedProduct domain.Product
	if err := attributevalue.UnmarshalMap(result.Attributes, &updatedProduct); err != nil {
		return 0, previousStock, err
	}
	if updatedProduct.Stock == nil {
		return 0, previousStock, ErrNoProductStock
	}

	return *updatedProduct.Stock, previousStock, nil
}

// DeductVariantStock atomically deducts stock from one variant of a
// variant product, addressed by SKU. The variant's list position is read
// first; the condition re-checks the SKU at that index so a concurrent
// variant reorder fails the update instead of hitting the wrong row.
func (r *ProductRepository) DeductVariantStock(ctx context.Context, productID, sku string, quantity int) (newStock int, previousStock int, err error) {
	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, 0, err
	}

	idx := -1
	for i, v := range product.Variants {
		if v.SKU == sku {
			idx = i
			previousStock = v.Stock
			break
		}
	}
	if idx < 0 {
		return 0, 0, ErrVariantNotFound
	}

	stockPath := fmt.Sprintf("variants[%d].stock", idx)
	skuPath := fmt.Sprintf("variants[%d].sku", idx)

	update := expression.Set(
		expression.Name(stockPath),
		expression.Minus(
			expression.Name(stockPath),
			expression.Value(quantity),
		),
	).Set(
		expression.Name("updated_at"),
		expression.Value(time.Now()),
	)

	condition := expression.Equal(
		expression.Name(skuPath),
		expression.Value(sku),
	).And(expression.GreaterThanEqual(
		expression.Name(stockPath),
		expression.Value(quantity),
	))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return 0, previousStock, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, previousStock, ErrInsufficientStock
		}
		return 0, previousStock, err
	}

	var updatedProduct domain.Product
	if err := attributevalue.UnmarshalMap(result.Attributes, &updatedProduct); err != nil {
		return 0, previousStock, err
	}
	if idx >= len(updatedProduct.Variants) {
		return 0, previousStock, ErrVariantNotFound
	}

	return updatedProduct.Variants[idx].Stock, previousStock, nil
}
