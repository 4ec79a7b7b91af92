package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

type ActivityFeed struct {
	log repository.ActivityLog
	now func() time.Time
}

func NewActivityFeed(log repository.ActivityLog, now func() time.Time) *ActivityFeed {
	if now == nil {
		now = time.Now
	}
	return &ActivityFeed{log: log, now: now}
}

func (f *ActivityFeed) RecordSale(ctx context.Context, order *models.Order) error {
	items := order.ItemCount()
	noun := "items"
	if items == 1 {
		noun = "item"
	}
	amount := order.Total
	return f.append(ctx, models.ActivitySale,
		fmt.Sprintf("Sale %s: %d %s for %s", order.OrderNumber, items, noun, amount.StringFixed(2)), &amount)
}

func (f *ActivityFeed) RecordLowStock(ctx context.Context, product models.ProductRef, remaining int) error {
	return f.append(ctx, models.ActivityLowStock,
		fmt.Sprintf("%s is low on stock: %d left", product.Name, remaining), nil)
}

func (f *ActivityFeed) RecordCartCleared(ctx context.Context, lines int) error {
	return f.append(ctx, models.ActivityCartClear, fmt.Sprintf("Cart with %d lines abandoned", lines), nil)
}

func (f *ActivityFeed) Recent(ctx context.Context, k int) ([]models.ActivityEvent, error) {
	return f.log.Recent(ctx, k)
}

func (f *ActivityFeed) append(ctx context.Context, kind models.ActivityKind, msg string, amount *decimal.Decimal) error {
	return f.log.Append(ctx, &models.ActivityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Message:    msg,
		Amount:     amount,
		OccurredAt: f.now(),
	})
}
