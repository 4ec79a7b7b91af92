package models

import "github.com/shopspring/decimal"

type CartLine struct {
	LineID       string          `json:"line_id"`
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Barcode      string          `json:"barcode"`
	StockTracked bool            `json:"stock_tracked"`
}

// LineTotal is unitPrice × quantity, unrounded.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddResult reports how much of an add request was applied. Clamped is the
// part dropped by the stock ceiling. Reduced counts units taken off an
// existing line because stock fell below what it already held.
type AddResult struct {
	Line    CartLine `json:"line"`
	Applied int      `json:"applied"`
	Clamped int      `json:"clamped"`
	Reduced int      `json:"reduced,omitempty"`
}

// Changed reports whether the line quantity moved.
func (r AddResult) Changed() bool {
	return r.Applied > 0 || r.Reduced > 0
}
