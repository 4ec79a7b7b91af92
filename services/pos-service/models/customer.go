package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRef is the customer attached to a sale. Any field may be empty.
type CustomerRef struct {
	CustomerID string  `json:"customer_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// IsZero reports whether the ref identifies nobody.
func (c CustomerRef) IsZero() bool {
	return c.CustomerID == "" && c.Phone == "" && c.Name == ""
}

type CustomerLedgerEntry struct {
	CustomerID     string          `gorm:"primaryKey" json:"customer_id"`
	Name           string          `gorm:"index" json:"name"`
	Phone          string          `gorm:"index" json:"phone"`
	Email          *string         `json:"email,omitempty"`
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `gorm:"type:numeric" json:"total_spent"`
	LastPurchaseAt time.Time       `json:"last_purchase_at"`
	JoinedAt       time.Time       `json:"joined_at"`
	LoyaltyPoints  int64           `json:"loyalty_points"`
}

func (CustomerLedgerEntry) TableName() string {
	return "customer_ledger"
}
