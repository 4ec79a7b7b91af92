package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error. Code doubles as the HTTP status
// returned to the terminal UI.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code and message, so a sentinel
// still matches after Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// CodeOf returns the HTTP status for err, defaulting to 500.
func CodeOf(err error) int {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// MessageOf returns the text shown to the terminal for err. Errors outside
// the taxonomy are reported as ErrInternalServer so driver detail stays in
// the logs.
func MessageOf(err error) string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return err.Error()
	}
	return ErrInternalServer.Message
}

// ErrorMiddleware renders the last gin error as JSON.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Handlers that already rendered an error only attach it for logging.
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		c.AbortWithStatusJSON(CodeOf(err), gin.H{
			"code":    CodeOf(err),
			"message": MessageOf(err),
		})
	}
}

// Generic error types
var (
	ErrInvalidInput   = New(http.StatusBadRequest, "Invalid input", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Cart and stock error types
var (
	ErrOutOfStock         = New(http.StatusConflict, "Out of stock", nil)
	ErrStockLimitExceeded = New(http.StatusConflict, "Stock limit exceeded", nil)
	ErrInvalidQuantity    = New(http.StatusBadRequest, "Invalid quantity", nil)
	ErrProductNotFound    = New(http.StatusNotFound, "Product not found", nil)
	ErrLineNotFound       = New(http.StatusNotFound, "Cart line not found", nil)
	ErrInvalidDiscount    = New(http.StatusBadRequest, "Discount percent must be between 0 and 100", nil)
)

// Checkout error types
var (
	ErrEmptyCart           = New(http.StatusUnprocessableEntity, "Cart is empty", nil)
	ErrPaymentFieldInvalid = New(http.StatusUnprocessableEntity, "Payment details invalid", nil)
	ErrInvalidTransition   = New(http.StatusConflict, "Action not allowed in current checkout state", nil)
	ErrCommitInProgress    = New(http.StatusConflict, "Checkout already in progress", nil)
	ErrCommitFailed        = New(http.StatusServiceUnavailable, "Order could not be saved, please retry", nil)
	ErrSessionClosed       = New(http.StatusServiceUnavailable, "Checkout session closed", nil)
)

// Secondary bookkeeping error types. These are logged or surfaced as
// warnings, never returned as blocking errors from checkout.
var (
	ErrRemoteCommitFailed = New(http.StatusAccepted, "Order completed locally; may not yet appear in remote reports", nil)
	ErrLedgerUpdateFailed = New(http.StatusAccepted, "Customer ledger update failed", nil)
)
