package errors

import "fmt"

// OutOfStockError is returned when a tracked product has no units left.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock", e.ProductName)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

// StockLimitError is returned when an explicit edit asks for more units than
// the shelf holds. Available is what the terminal should offer instead.
type StockLimitError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("only %d of %s available (requested %d)", e.Available, e.ProductName, e.Requested)
}

func (e *StockLimitError) Unwrap() error { return ErrStockLimitExceeded }

// PaymentFieldError names the first payment field that failed validation.
type PaymentFieldError struct {
	Field  string
	Reason string
}

func (e *PaymentFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *PaymentFieldError) Unwrap() error { return ErrPaymentFieldInvalid }
