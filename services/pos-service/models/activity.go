package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActivityKind string

const (
	ActivitySale      ActivityKind = "sale"
	ActivityLowStock  ActivityKind = "low_stock"
	ActivityCartClear ActivityKind = "cart_cleared"
)

type ActivityEvent struct {
	ID         string           `json:"id"`
	Kind       ActivityKind     `json:"kind"`
	Message    string           `json:"message"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
