package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

// CheckoutService is the terminal's active checkout session.
type CheckoutService interface {
	Snapshot(ctx context.Context) (models.SessionSnapshot, error)
	Scan(ctx context.Context, code string) (models.AddResult, error)
	AddItem(ctx context.Context, barcode string, qty int) (models.AddResult, error)
	AddProduct(ctx context.Context, productID string, qty int) (models.AddResult, error)
	SetQuantity(ctx context.Context, lineID string, qty int) (*models.CartLine, error)
	RemoveLine(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error
	SetDiscount(ctx context.Context, percent decimal.Decimal) error
	SetCustomer(ctx context.Context, ref *models.CustomerRef) error
	SelectMethod(ctx context.Context, sel models.PaymentSelection) error
	Submit(ctx context.Context) (*models.CheckoutResult, error)
	RecentOrders(ctx context.Context, k int) ([]models.Order, error)
	LastOrder(ctx context.Context) (*models.Order, error)
	Reprint(ctx context.Context) (*models.Order, error)
	RecentActivity(ctx context.Context, k int) ([]models.ActivityEvent, error)
}

// CameraScanner debounces barcodes decoded from a camera feed.
type CameraScanner interface {
	Handle(ctx context.Context, code string) services.ScanResult
}

// POSController handles HTTP requests from the terminal UI.
type POSController struct {
	session CheckoutService
	scanner CameraScanner
}

func NewPOSController(session CheckoutService, scanner CameraScanner) *POSController {
	return &POSController{session: session, scanner: scanner}
}

// respondError writes {code, message} with the status carried by err.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		ctx.AbortWithStatusJSON(http.StatusRequestTimeout, gin.H{"code": http.StatusRequestTimeout, "message": err.Error()})
		return
	}

	code := apperrors.CodeOf(err)
	body := gin.H{"code": code, "message": apperrors.MessageOf(err)}

	var sle *apperrors.StockLimitError
	if errors.As(err, &sle) {
		body["available"] = sle.Available
	}
	var pfe *apperrors.PaymentFieldError
	if errors.As(err, &pfe) {
		body["field"] = pfe.Field
	}
	ctx.AbortWithStatusJSON(code, body)
}

func badRequest(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": apperrors.ErrInvalidInput.Message,
		"details": err.Error(),
	})
}

func addResponse(res models.AddResult) gin.H {
	body := gin.H{"line": res.Line, "applied": res.Applied, "clamped": res.Clamped}
	switch {
	case res.Reduced > 0:
		body["reduced"] = res.Reduced
		body["warning"] = fmt.Sprintf("Stock for %s fell; line reduced by %d to %d", res.Line.Name, res.Reduced, res.Line.Quantity)
	case res.Clamped > 0:
		body["warning"] = fmt.Sprintf("Only %d of %d added to %s; stock limit reached", res.Applied, res.Applied+res.Clamped, res.Line.Name)
	}
	return body
}

// GetSession handles GET /pos/session.
func (pc *POSController) GetSession(ctx *gin.Context) {
	snap, err := pc.session.Snapshot(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// Scan handles POST /pos/scan. Camera scans pass the per-code cooldown.
func (pc *POSController) Scan(ctx *gin.Context) {
	var req models.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if req.Source == models.ScanSourceCamera && pc.scanner != nil {
		res := pc.scanner.Handle(ctx.Request.Context(), req.Barcode)
		if res.Skipped {
			ctx.JSON(http.StatusOK, gin.H{"skipped": true})
			return
		}
		if res.Err != nil {
			respondError(ctx, res.Err)
			return
		}
		ctx.JSON(http.StatusOK, addResponse(res.Result))
		return
	}

	res, err := pc.session.Scan(ctx.Request.Context(), req.Barcode)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, addResponse(res))
}

// AddItem handles POST /pos/items.
func (pc *POSController) AddItem(ctx *gin.Context) {
	var req models.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if (req.Barcode == "") == (req.ProductID == "") {
		badRequest(ctx, errors.New("exactly one of barcode or product_id is required"))
		return
	}

	var (
		res models.AddResult
		err error
	)
	if req.Barcode != "" {
		res, err = pc.session.AddItem(ctx.Request.Context(), req.Barcode, req.Quantity)
	} else {
		res, err = pc.session.AddProduct(ctx.Request.Context(), req.ProductID, req.Quantity)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, addResponse(res))
}

// UpdateItem handles PUT /pos/items/:line_id.
func (pc *POSController) UpdateItem(ctx *gin.Context) {
	var req models.SetQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	line, err := pc.session.SetQuantity(ctx.Request.Context(), ctx.Param("line_id"), *req.Quantity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if line == nil {
		ctx.JSON(http.StatusOK, gin.H{"removed": true})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"line": line})
}

// RemoveItem handles DELETE /pos/items/:line_id.
func (pc *POSController) RemoveItem(ctx *gin.Context) {
	if err := pc.session.RemoveLine(ctx.Request.Context(), ctx.Param("line_id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ClearCart handles DELETE /pos/cart.
func (pc *POSController) ClearCart(ctx *gin.Context) {
	if err := pc.session.Clear(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SetDiscount handles PUT /pos/discount.
func (pc *POSController) SetDiscount(ctx *gin.Context) {
	var req models.DiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if err := pc.session.SetDiscount(ctx.Request.Context(), req.Percent); err != nil {
		respondError(ctx, err)
		return
	}
	pc.GetSession(ctx)
}

// SetCustomer handles PUT /pos/customer. An empty body detaches the customer.
func (pc *POSController) SetCustomer(ctx *gin.Context) {
	var ref models.CustomerRef
	if err := ctx.ShouldBindJSON(&ref); err != nil {
		badRequest(ctx, err)
		return
	}
	if err := pc.session.SetCustomer(ctx.Request.Context(), &ref); err != nil {
		respondError(ctx, err)
		return
	}
	pc.GetSession(ctx)
}

// SelectPayment handles PUT /pos/payment.
func (pc *POSController) SelectPayment(ctx *gin.Context) {
	var req models.PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}
	if err := pc.session.SelectMethod(ctx.Request.Context(), req.Selection()); err != nil {
		respondError(ctx, err)
		return
	}
	pc.GetSession(ctx)
}

// Checkout handles POST /pos/checkout.
func (pc *POSController) Checkout(ctx *gin.Context) {
	res, err := pc.session.Submit(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, res)
}

// RecentOrders handles GET /pos/orders/recent?limit=k.
func (pc *POSController) RecentOrders(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		badRequest(ctx, errors.New("limit must be a positive integer"))
		return
	}
	orders, err := pc.session.RecentOrders(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// LastOrder handles GET /pos/orders/last.
func (pc *POSController) LastOrder(ctx *gin.Context) {
	order, err := pc.session.LastOrder(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ReprintLast handles POST /pos/orders/last/reprint.
func (pc *POSController) ReprintLast(ctx *gin.Context) {
	order, err := pc.session.Reprint(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"order_number": order.OrderNumber})
}

// Activity handles GET /pos/activity.
func (pc *POSController) Activity(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	events, err := pc.session.RecentActivity(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"events": events})
}
