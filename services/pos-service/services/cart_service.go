package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

// LowStockFunc is called when an add leaves a tracked product at or below its
// minimum stock.
type LowStockFunc func(ctx context.Context, product models.ProductRef, remaining int)

// CartManager holds the lines of one in-progress sale. It is not safe for
// concurrent use; the checkout session serializes access to it.
type CartManager struct {
	ledger     repository.StockLedgerView
	lines      []models.CartLine
	onLowStock LowStockFunc
	logger     *zap.Logger
}

func NewCartManager(ledger repository.StockLedgerView, onLowStock LowStockFunc, logger *zap.Logger) *CartManager {
	return &CartManager{ledger: ledger, onLowStock: onLowStock, logger: logger}
}

// AddOrIncrement adds qty units of product, merging into an existing line.
// For tracked products the resulting quantity is clamped to the stock read
// now; the clamped remainder is reported, not returned as an error. Zero stock
// is rejected with OutOfStockError. A line already above current stock is cut
// down to it and the cut is reported as Reduced.
func (c *CartManager) AddOrIncrement(ctx context.Context, product models.ProductRef, qty int) (models.AddResult, error) {
	if qty < 1 {
		return models.AddResult{}, apperrors.ErrInvalidQuantity
	}

	idx := c.indexOfProduct(product.ProductID)
	existing := 0
	if idx >= 0 {
		existing = c.lines[idx].Quantity
	}

	target := existing + qty
	stock := -1
	if product.StockTracked {
		var err error
		stock, err = c.ledger.CurrentStock(ctx, product.ProductID)
		if err != nil {
			return models.AddResult{}, fmt.Errorf("stock lookup for %s: %w", product.ProductID, err)
		}
		if stock <= 0 {
			return models.AddResult{}, &apperrors.OutOfStockError{ProductName: product.Name}
		}
		if target > stock {
			target = stock
		}
	}

	applied := target - existing
	result := models.AddResult{Applied: applied, Clamped: qty - applied}
	if applied < 0 {
		result.Applied = 0
		result.Clamped = qty
		result.Reduced = -applied
	}

	if idx >= 0 {
		c.lines[idx].Quantity = target
		result.Line = c.lines[idx]
	} else {
		line := models.CartLine{
			LineID:       uuid.NewString(),
			ProductID:    product.ProductID,
			Name:         product.Name,
			UnitPrice:    product.UnitPrice,
			Quantity:     target,
			Barcode:      product.Barcode,
			StockTracked: product.StockTracked,
		}
		c.lines = append(c.lines, line)
		result.Line = line
	}

	if result.Clamped > 0 {
		c.logger.Info("Add clamped to stock ceiling",
			zap.String("product_id", product.ProductID),
			zap.Int("requested", qty),
			zap.Int("applied", result.Applied),
			zap.Int("reduced", result.Reduced),
			zap.Int("stock", stock))
	}
	if product.StockTracked && c.onLowStock != nil && product.IsLowStock(stock-target) {
		c.onLowStock(ctx, product, stock-target)
	}
	return result, nil
}

// SetQuantity replaces a line's quantity. Zero removes the line. A tracked
// product asking for more than current stock is rejected outright.
func (c *CartManager) SetQuantity(ctx context.Context, lineID string, qty int) (*models.CartLine, error) {
	if qty < 0 {
		return nil, apperrors.ErrInvalidQuantity
	}
	idx := c.indexOfLine(lineID)
	if idx < 0 {
		return nil, apperrors.ErrLineNotFound
	}
	if qty == 0 {
		c.removeAt(idx)
		return nil, nil
	}

	line := c.lines[idx]
	if line.StockTracked {
		stock, err := c.ledger.CurrentStock(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("stock lookup for %s: %w", line.ProductID, err)
		}
		if qty > stock {
			return nil, &apperrors.StockLimitError{ProductName: line.Name, Requested: qty, Available: stock}
		}
	}

	c.lines[idx].Quantity = qty
	updated := c.lines[idx]
	return &updated, nil
}

func (c *CartManager) Remove(lineID string) error {
	idx := c.indexOfLine(lineID)
	if idx < 0 {
		return apperrors.ErrLineNotFound
	}
	c.removeAt(idx)
	return nil
}

func (c *CartManager) Clear() {
	c.lines = nil
}

// VerifyStockCeilings re-reads stock for every tracked line and reports the
// first line that no longer fits. The cart is left unchanged.
func (c *CartManager) VerifyStockCeilings(ctx context.Context) error {
	for _, l := range c.lines {
		if !l.StockTracked {
			continue
		}
		stock, err := c.ledger.CurrentStock(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("stock lookup for %s: %w", l.ProductID, err)
		}
		if stock <= 0 {
			return &apperrors.OutOfStockError{ProductName: l.Name}
		}
		if l.Quantity > stock {
			return &apperrors.StockLimitError{ProductName: l.Name, Requested: l.Quantity, Available: stock}
		}
	}
	return nil
}

// Subtotal is recomputed from the lines on every call.
func (c *CartManager) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Lines returns a copy of the lines in insertion order.
func (c *CartManager) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *CartManager) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *CartManager) indexOfProduct(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *CartManager) indexOfLine(lineID string) int {
	for i, l := range c.lines {
		if l.LineID == lineID {
			return i
		}
	}
	return -1
}

func (c *CartManager) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
