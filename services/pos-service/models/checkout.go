package models

import "github.com/shopspring/decimal"

type CheckoutState string

const (
	StateEmpty          CheckoutState = "empty"
	StateEditing        CheckoutState = "editing"
	StateMethodSelected CheckoutState = "method_selected"
	StateValidating     CheckoutState = "validating"
	StateCommitting     CheckoutState = "committing"
	StateCommitted      CheckoutState = "committed"
)

// Breakdown holds unrounded pricing figures.
type Breakdown struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// DisplayBreakdown is Breakdown rounded to two places for presentation.
type DisplayBreakdown struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	TaxableAmount  string `json:"taxable_amount"`
	TaxAmount      string `json:"tax_amount"`
	Total          string `json:"total"`
}

func (b Breakdown) Display() DisplayBreakdown {
	return DisplayBreakdown{
		Subtotal:       b.Subtotal.StringFixed(2),
		DiscountAmount: b.DiscountAmount.StringFixed(2),
		TaxableAmount:  b.TaxableAmount.StringFixed(2),
		TaxAmount:      b.TaxAmount.StringFixed(2),
		Total:          b.Total.StringFixed(2),
	}
}

// SessionSnapshot is a read-only copy of the checkout session.
type SessionSnapshot struct {
	State         CheckoutState    `json:"state"`
	Lines         []CartLine       `json:"lines"`
	Pricing       Breakdown        `json:"pricing"`
	Display       DisplayBreakdown `json:"display"`
	PaymentMethod PaymentMethod    `json:"payment_method,omitempty"`
	Customer      *CustomerRef     `json:"customer,omitempty"`
}
