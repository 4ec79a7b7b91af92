package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// StockLedgerView is the read-only catalog view the cart checks stock against.
// Every call reads through; nothing is cached here.
type StockLedgerView interface {
	LookupByBarcode(ctx context.Context, code string) (*models.ProductRef, error)
	Product(ctx context.Context, productID string) (*models.ProductRef, error)
	CurrentStock(ctx context.Context, productID string) (int, error)
}

// DynamoAPI is the part of the DynamoDB client the ledger uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStockLedger reads products from the catalog's DynamoDB table.
type DynamoStockLedger struct {
	client       DynamoAPI
	table        string
	barcodeIndex string
}

func NewDynamoStockLedger(client DynamoAPI, table, barcodeIndex string) *DynamoStockLedger {
	return &DynamoStockLedger{client: client, table: table, barcodeIndex: barcodeIndex}
}

type ddbProduct struct {
	ProductID    string  `dynamodbav:"product_id"`
	Name         string  `dynamodbav:"name"`
	UnitPrice    float64 `dynamodbav:"unit_price"`
	Barcode      string  `dynamodbav:"barcode"`
	Stock        int     `dynamodbav:"stock"`
	MinStock     int     `dynamodbav:"min_stock"`
	StockTracked bool    `dynamodbav:"stock_tracked"`
}

func (p ddbProduct) toModel() *models.ProductRef {
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}
	return &models.ProductRef{
		ProductID:    p.ProductID,
		Name:         p.Name,
		UnitPrice:    decimal.NewFromFloat(p.UnitPrice),
		Barcode:      p.Barcode,
		CurrentStock: stock,
		MinStock:     p.MinStock,
		StockTracked: p.StockTracked,
	}
}

func (r *DynamoStockLedger) LookupByBarcode(ctx context.Context, code string) (*models.ProductRef, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.table,
		IndexName:              &r.barcodeIndex,
		KeyConditionExpression: aws.String("barcode = :b"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":b": &types.AttributeValueMemberS{Value: code},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, apperrors.ErrProductNotFound
	}

	var p ddbProduct
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return p.toModel(), nil
}

func (r *DynamoStockLedger) Product(ctx context.Context, productID string) (*models.ProductRef, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrProductNotFound
	}

	var p ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return p.toModel(), nil
}

func (r *DynamoStockLedger) CurrentStock(ctx context.Context, productID string) (int, error) {
	p, err := r.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.CurrentStock, nil
}
