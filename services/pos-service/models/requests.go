package models

import "github.com/shopspring/decimal"

type ScanSource string

const (
	ScanSourceManual ScanSource = "manual"
	ScanSourceCamera ScanSource = "camera"
)

type ScanRequest struct {
	Barcode string     `json:"barcode" binding:"required"`
	Source  ScanSource `json:"source" binding:"omitempty,oneof=manual camera"`
}

// AddItemRequest adds by barcode or by product id; exactly one is expected.
type AddItemRequest struct {
	Barcode   string `json:"barcode"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type DiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}
