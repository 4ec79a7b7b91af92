package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

func mongoOrder() *models.Order {
	id := uuid.New()
	return &models.Order{
		ID:              id,
		OrderNumber:     "ORD-20260101-101500-abcdef12",
		TerminalID:      "till-1",
		CreatedAt:       time.Date(2026, 1, 1, 10, 15, 0, 0, time.UTC),
		Subtotal:        decimal.RequireFromString("0.333"),
		DiscountPercent: decimal.RequireFromString("12.345"),
		DiscountAmount:  decimal.RequireFromString("0.041108850"),
		TaxRate:         decimal.NewFromInt(18),
		TaxAmount:       decimal.RequireFromString("0.052540407"),
		Total:           decimal.RequireFromString("0.344431557"),
		PaymentMethod:   models.PaymentMethodUPI,
		PaymentDetails:  &models.PaymentDetails{UPIVPA: "asha@okbank"},
		Lines: []models.OrderLine{{
			ID:          uuid.New(),
			OrderID:     id,
			ProductID:   "p-1",
			ProductName: "Sachet",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("0.333"),
			LineTotal:   decimal.RequireFromString("0.333"),
		}},
	}
}

func toBSON(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func TestMongoOrderRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock).DatabaseName("pos"))

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoOrderRepository(mt.DB)

		assert.NoError(mt, repo.Insert(context.Background(), mongoOrder()))
	})

	mt.Run("duplicate key counts as stored", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: pos.orders index: _id_",
		}))
		repo := NewMongoOrderRepository(mt.DB)

		assert.NoError(mt, repo.Insert(context.Background(), mongoOrder()))
	})

	mt.Run("other write errors surface", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "Document failed validation",
		}))
		repo := NewMongoOrderRepository(mt.DB)

		assert.Error(mt, repo.Insert(context.Background(), mongoOrder()))
	})

	mt.Run("find round-trips exact amounts", func(mt *mtest.T) {
		o := mongoOrder()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pos.orders", mtest.FirstBatch, toBSON(mt.T, toOrderDocument(o))))
		repo := NewMongoOrderRepository(mt.DB)

		got, err := repo.FindByID(context.Background(), o.ID)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, o.ID, got.ID)
		assert.True(mt, o.Total.Equal(got.Total), got.Total.String())
		assert.True(mt, o.DiscountPercent.Equal(got.DiscountPercent))
		assert.Equal(mt, "asha@okbank", got.PaymentDetails.UPIVPA)
		require.Len(mt, got.Lines, 1)
		assert.Equal(mt, o.ID, got.Lines[0].OrderID)
		assert.True(mt, o.Lines[0].LineTotal.Equal(got.Lines[0].LineTotal))
	})

	mt.Run("find unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "pos.orders", mtest.FirstBatch))
		repo := NewMongoOrderRepository(mt.DB)

		got, err := repo.FindByID(context.Background(), uuid.New())
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})
}

func TestToDecimal128_RoundsBeyondPrecision(t *testing.T) {
	exact := decimal.RequireFromString("1234.5678")
	assert.True(t, exact.Equal(fromDecimal128(toDecimal128(exact))))

	wide := decimal.RequireFromString("1.0000000000000000000000000000000000000001")
	assert.True(t, decimal.NewFromInt(1).Equal(fromDecimal128(toDecimal128(wide))))
}
