package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

type fakeDynamo struct {
	items []map[string]types.AttributeValue
	err   error
}

func (f *fakeDynamo) add(t *testing.T, item map[string]any) {
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	f.items = append(f.items, av)
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := in.Key["product_id"].(*types.AttributeValueMemberS).Value
	for _, it := range f.items {
		if it["product_id"].(*types.AttributeValueMemberS).Value == want {
			return &dynamodb.GetItemOutput{Item: it}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := in.ExpressionAttributeValues[":b"].(*types.AttributeValueMemberS).Value
	for _, it := range f.items {
		if it["barcode"].(*types.AttributeValueMemberS).Value == want {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{it}}, nil
		}
	}
	return &dynamodb.QueryOutput{}, nil
}

func TestDynamoStockLedger(t *testing.T) {
	ddb := &fakeDynamo{}
	ddb.add(t, map[string]any{
		"product_id": "p-1", "name": "Tea 250g", "unit_price": 120.5, "barcode": "8901234567890",
		"stock": 7, "min_stock": 2, "stock_tracked": true,
	})
	ledger := repository.NewDynamoStockLedger(ddb, "products", "barcode-index")
	ctx := context.Background()

	t.Run("lookup by barcode", func(t *testing.T) {
		p, err := ledger.LookupByBarcode(ctx, "8901234567890")
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ProductID)
		assert.Equal(t, "120.5", p.UnitPrice.String())
		assert.True(t, p.StockTracked)
	})

	t.Run("current stock", func(t *testing.T) {
		n, err := ledger.CurrentStock(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("unknown barcode", func(t *testing.T) {
		_, err := ledger.LookupByBarcode(ctx, "000")
		assert.True(t, errors.Is(err, apperrors.ErrProductNotFound))
	})

	t.Run("backend error", func(t *testing.T) {
		broken := repository.NewDynamoStockLedger(&fakeDynamo{err: errors.New("throttled")}, "products", "barcode-index")
		_, err := broken.CurrentStock(ctx, "p-1")
		assert.ErrorContains(t, err, "throttled")
	})
}
