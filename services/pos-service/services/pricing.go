package services

import (
	"github.com/shopspring/decimal"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// Price computes discount, tax and total from a subtotal. Values are kept
// unrounded; use Breakdown.Display for two-place presentation.
func Price(subtotal, discountPercent, taxRate decimal.Decimal) models.Breakdown {
	discount := subtotal.Mul(discountPercent).Shift(-2)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Shift(-2)

	return models.Breakdown{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		TaxableAmount:   taxable,
		TaxRate:         taxRate,
		TaxAmount:       tax,
		Total:           taxable.Add(tax),
	}
}

// ValidDiscount reports whether p is within 0..100.
func ValidDiscount(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(100))
}
