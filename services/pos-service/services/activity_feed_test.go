package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

func TestActivityFeed_RecordSale(t *testing.T) {
	log := &fakeActivity{}
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	feed := services.NewActivityFeed(log, func() time.Time { return at })
	order := testOrder()
	order.OrderNumber = "ORD-1"

	require.NoError(t, feed.RecordSale(context.Background(), order))

	events, err := feed.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.ActivitySale, events[0].Kind)
	assert.Equal(t, "Sale ORD-1: 2 items for 2124.00", events[0].Message)
	assert.True(t, order.Total.Equal(*events[0].Amount))
	assert.Equal(t, at, events[0].OccurredAt)
}

func TestActivityFeed_LowStock(t *testing.T) {
	log := &fakeActivity{}
	feed := services.NewActivityFeed(log, nil)

	require.NoError(t, feed.RecordLowStock(context.Background(), kettle(), 1))
	events, _ := feed.Recent(context.Background(), 1)
	assert.Equal(t, "Product kettle is low on stock: 1 left", events[0].Message)
	assert.Nil(t, events[0].Amount)
}
