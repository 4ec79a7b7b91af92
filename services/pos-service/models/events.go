package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderCompleted = "order.completed"

// OrderCompletedEvent is published after a sale commits.
type OrderCompletedEvent struct {
	EventType     string          `json:"event_type"`
	OrderID       string          `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	TerminalID    string          `json:"terminal_id"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CustomerID    string          `json:"customer_id,omitempty"`
	RemoteStored  bool            `json:"remote_stored"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ReceiptJob is handed to the receipt renderer.
type ReceiptJob struct {
	Order       *Order    `json:"order"`
	RequestedAt time.Time `json:"requested_at"`
	Reprint     bool      `json:"reprint"`
}
