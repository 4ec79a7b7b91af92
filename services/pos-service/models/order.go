package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable once the checkout builds it.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	TerminalID      string          `gorm:"index" json:"terminal_id"`
	CreatedAt       time.Time       `json:"created_at"`
	CustomerID      *string         `gorm:"index" json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	Subtotal        decimal.Decimal `gorm:"type:numeric" json:"subtotal"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric" json:"discount_amount"`
	TaxRate         decimal.Decimal `gorm:"type:numeric" json:"tax_rate"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric" json:"tax_amount"`
	Total           decimal.Decimal `gorm:"type:numeric" json:"total"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(16)" json:"payment_method"`
	PaymentDetails  *PaymentDetails `gorm:"type:jsonb;serializer:json" json:"payment_details,omitempty"`
}

type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric" json:"line_total"`
}

// ItemCount is the number of units sold.
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// OrderHandle identifies where an order ended up.
type OrderHandle struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Remote      bool      `json:"remote"`
	Local       bool      `json:"local"`
}

// CheckoutResult is what a successful submit returns to the terminal.
type CheckoutResult struct {
	Order    *Order      `json:"order"`
	Handle   OrderHandle `json:"handle"`
	Warnings []string    `json:"warnings,omitempty"`
}
