package models

import "github.com/shopspring/decimal"

// ProductRef is the catalog's view of a product at the moment it was read.
// Stock figures may be stale by the time they are used.
type ProductRef struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Barcode      string          `json:"barcode"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	StockTracked bool            `json:"stock_tracked"`
}

// IsLowStock reports whether a tracked product is at or under its threshold
// once remaining units are left on the shelf.
func (p ProductRef) IsLowStock(remaining int) bool {
	return p.StockTracked && remaining <= p.MinStock
}
