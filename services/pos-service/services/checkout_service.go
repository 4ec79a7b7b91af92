package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

// CheckoutDeps are the collaborators of a checkout session. Receipts and
// Events may be nil.
type CheckoutDeps struct {
	TerminalID  string
	TaxRate     decimal.Decimal
	Ledger      repository.StockLedgerView
	Persistence *OrderPersistence
	Customers   *CustomerLedgerUpdater
	Activity    *ActivityFeed
	Receipts    ReceiptDispatcher
	Events      *OrderEventPublisher
	Validator   *PaymentValidator
	Metrics     MetricsRecorder
	Now         func() time.Time
	Logger      *zap.Logger
}

// CheckoutSession is the single active sale on a terminal. All state is owned
// by the goroutine in Run; public methods queue work onto it and wait, so
// every mutation runs to completion before the next one starts.
type CheckoutSession struct {
	deps    CheckoutDeps
	logger  *zap.Logger
	events  chan func()
	stopped chan struct{}

	// owned by the Run goroutine
	state     models.CheckoutState
	cart      *CartManager
	discount  decimal.Decimal
	customer  *models.CustomerRef
	payment   models.PaymentSelection
	lastOrder *models.Order
}

func NewCheckoutSession(deps CheckoutDeps) *CheckoutSession {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics{}
	}
	if deps.Validator == nil {
		deps.Validator = NewPaymentValidator(deps.Now)
	}
	s := &CheckoutSession{
		deps:     deps,
		logger:   deps.Logger.With(zap.String("terminal_id", deps.TerminalID)),
		events:   make(chan func()),
		stopped:  make(chan struct{}),
		state:    models.StateEmpty,
		discount: decimal.Zero,
	}
	s.cart = NewCartManager(deps.Ledger, s.lowStock, s.logger)
	return s
}

// Run processes queued work until ctx is cancelled.
func (s *CheckoutSession) Run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// do runs fn on the session goroutine and waits for it.
func (s *CheckoutSession) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(done) }:
	case <-s.stopped:
		return apperrors.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

func (s *CheckoutSession) checkEditable() error {
	if s.state == models.StateCommitting || s.state == models.StateValidating {
		return apperrors.ErrCommitInProgress
	}
	return nil
}

// cartChanged drops any selected payment and returns to Editing, or to Empty
// when the last line went away.
func (s *CheckoutSession) cartChanged() {
	s.payment = nil
	if s.cart.IsEmpty() {
		s.state = models.StateEmpty
	} else {
		s.state = models.StateEditing
	}
}

// Scan adds one unit of the product with this barcode.
func (s *CheckoutSession) Scan(ctx context.Context, code string) (models.AddResult, error) {
	return s.AddItem(ctx, code, 1)
}

func (s *CheckoutSession) AddItem(ctx context.Context, barcode string, qty int) (models.AddResult, error) {
	return s.add(ctx, qty, func(ctx context.Context) (*models.ProductRef, error) {
		return s.deps.Ledger.LookupByBarcode(ctx, barcode)
	})
}

func (s *CheckoutSession) AddProduct(ctx context.Context, productID string, qty int) (models.AddResult, error) {
	return s.add(ctx, qty, func(ctx context.Context) (*models.ProductRef, error) {
		return s.deps.Ledger.Product(ctx, productID)
	})
}

func (s *CheckoutSession) add(ctx context.Context, qty int, lookup func(context.Context) (*models.ProductRef, error)) (res models.AddResult, err error) {
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err != nil {
			return
		}
		var p *models.ProductRef
		if p, err = lookup(ctx); err != nil {
			return
		}
		if res, err = s.cart.AddOrIncrement(ctx, *p, qty); err != nil {
			return
		}
		if res.Changed() {
			s.cartChanged()
		}
	}); derr != nil {
		return models.AddResult{}, derr
	}
	return res, err
}

func (s *CheckoutSession) SetQuantity(ctx context.Context, lineID string, qty int) (line *models.CartLine, err error) {
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err != nil {
			return
		}
		if line, err = s.cart.SetQuantity(ctx, lineID, qty); err == nil {
			s.cartChanged()
		}
	}); derr != nil {
		return nil, derr
	}
	return line, err
}

func (s *CheckoutSession) RemoveLine(ctx context.Context, lineID string) (err error) {
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err != nil {
			return
		}
		if err = s.cart.Remove(lineID); err == nil {
			s.cartChanged()
		}
	}); derr != nil {
		return derr
	}
	return err
}

// Clear abandons the sale. It is refused once a commit has started.
func (s *CheckoutSession) Clear(ctx context.Context) (err error) {
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err != nil {
			return
		}
		if n := len(s.cart.Lines()); n > 0 {
			if aerr := s.deps.Activity.RecordCartCleared(ctx, n); aerr != nil {
				s.logger.Warn("Failed to record cart clear", zap.Error(aerr))
			}
		}
		s.reset()
	}); derr != nil {
		return derr
	}
	return err
}

func (s *CheckoutSession) reset() {
	s.cart.Clear()
	s.discount = decimal.Zero
	s.customer = nil
	s.payment = nil
	s.state = models.StateEmpty
}

func (s *CheckoutSession) SetDiscount(ctx context.Context, percent decimal.Decimal) (err error) {
	if !ValidDiscount(percent) {
		return apperrors.ErrInvalidDiscount
	}
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err == nil {
			s.discount = percent
		}
	}); derr != nil {
		return derr
	}
	return err
}

// SetCustomer attaches a customer to the sale; nil detaches.
func (s *CheckoutSession) SetCustomer(ctx context.Context, ref *models.CustomerRef) (err error) {
	if derr := s.do(ctx, func() {
		if err = s.checkEditable(); err != nil {
			return
		}
		if ref == nil || ref.IsZero() {
			s.customer = nil
			return
		}
		cp := *ref
		s.customer = &cp
	}); derr != nil {
		return derr
	}
	return err
}

// SelectMethod picks the payment method. Fields are validated on Submit.
func (s *CheckoutSession) SelectMethod(ctx context.Context, sel models.PaymentSelection) (err error) {
	if sel == nil {
		return apperrors.ErrInvalidInput
	}
	if derr := s.do(ctx, func() {
		switch s.state {
		case models.StateEmpty, models.StateEditing, models.StateMethodSelected:
			s.payment = sel
			s.state = models.StateMethodSelected
		default:
			err = apperrors.ErrCommitInProgress
		}
	}); derr != nil {
		return derr
	}
	return err
}

// Submit validates the payment, snapshots the order and commits it. The commit
// runs to completion even if ctx is cancelled once it has started.
func (s *CheckoutSession) Submit(ctx context.Context) (*models.CheckoutResult, error) {
	var (
		order    *models.Order
		customer *models.CustomerRef
		err      error
	)
	if derr := s.do(ctx, func() {
		order, customer, err = s.beginCommit(ctx)
	}); derr != nil {
		return nil, derr
	}
	if err != nil {
		return nil, err
	}

	commitCtx := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("order_id", order.ID.String()), zap.String("order_number", order.OrderNumber))

	persisted, err := s.deps.Persistence.Persist(commitCtx, order)
	if err != nil {
		log.Error("Order commit failed", zap.Error(err))
		_ = s.do(commitCtx, func() { s.state = models.StateMethodSelected })
		return nil, err
	}

	result := &models.CheckoutResult{Order: order, Handle: persisted.Handle, Warnings: persisted.Warnings}
	result.Warnings = append(result.Warnings, s.afterCommit(commitCtx, order, customer, persisted.Handle)...)

	if derr := s.do(commitCtx, func() {
		s.state = models.StateCommitted
		s.lastOrder = order
		s.reset()
	}); derr != nil {
		log.Warn("Session stopped before reset", zap.Error(derr))
	}

	log.Info("Sale committed",
		zap.String("total", order.Total.StringFixed(2)),
		zap.Bool("remote", persisted.Handle.Remote),
		zap.Bool("local", persisted.Handle.Local))
	return result, nil
}

func (s *CheckoutSession) beginCommit(ctx context.Context) (*models.Order, *models.CustomerRef, error) {
	switch s.state {
	case models.StateCommitting, models.StateValidating:
		return nil, nil, apperrors.ErrCommitInProgress
	case models.StateMethodSelected:
	default:
		return nil, nil, apperrors.ErrInvalidTransition
	}

	s.state = models.StateValidating
	if err := s.deps.Validator.Validate(s.payment); err != nil {
		s.state = models.StateMethodSelected
		return nil, nil, err
	}
	if s.cart.IsEmpty() {
		s.state = models.StateMethodSelected
		return nil, nil, apperrors.ErrEmptyCart
	}
	if err := s.cart.VerifyStockCeilings(ctx); err != nil {
		s.state = models.StateMethodSelected
		return nil, nil, err
	}

	order := s.buildOrder()
	s.state = models.StateCommitting
	var customer *models.CustomerRef
	if s.customer != nil {
		cp := *s.customer
		customer = &cp
	}
	return order, customer, nil
}

// OrderNumber formats the human-facing order number.
func OrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102-150405"), id.String()[:8])
}

func (s *CheckoutSession) buildOrder() *models.Order {
	now := s.deps.Now()
	id := uuid.New()

	lines := make([]models.OrderLine, 0, len(s.cart.Lines()))
	for _, l := range s.cart.Lines() {
		lines = append(lines, models.OrderLine{
			ID:          uuid.New(),
			OrderID:     id,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal(),
		})
	}
	pricing := Price(s.cart.Subtotal(), s.discount, s.deps.TaxRate)

	order := &models.Order{
		ID:              id,
		OrderNumber:     OrderNumber(now, id),
		TerminalID:      s.deps.TerminalID,
		CreatedAt:       now,
		Lines:           lines,
		Subtotal:        pricing.Subtotal,
		DiscountPercent: pricing.DiscountPercent,
		DiscountAmount:  pricing.DiscountAmount,
		TaxRate:         pricing.TaxRate,
		TaxAmount:       pricing.TaxAmount,
		Total:           pricing.Total,
		PaymentMethod:   s.payment.Method(),
		PaymentDetails:  s.payment.Details(),
	}
	if c := s.customer; c != nil {
		if c.CustomerID != "" {
			cid := c.CustomerID
			order.CustomerID = &cid
		}
		order.CustomerName = c.Name
		order.CustomerPhone = c.Phone
	}
	return order
}

// afterCommit runs the secondary bookkeeping. None of it can undo the sale;
// only a failed receipt hand-off is reported back to the operator.
func (s *CheckoutSession) afterCommit(ctx context.Context, order *models.Order, customer *models.CustomerRef, handle models.OrderHandle) []string {
	var warnings []string
	log := s.logger.With(zap.String("order_id", order.ID.String()))

	if customer != nil {
		if _, err := s.deps.Customers.Apply(ctx, order, *customer); err != nil {
			log.Warn("Ledger update skipped", zap.Error(err))
		}
	}

	if err := s.deps.Activity.RecordSale(ctx, order); err != nil {
		log.Warn("Failed to append activity", zap.Error(err))
	}

	if s.deps.Receipts != nil {
		if err := s.deps.Receipts.Dispatch(ctx, order, false); err != nil {
			log.Error("Receipt hand-off failed", zap.Error(err))
			warnings = append(warnings, "Receipt could not be sent to the printer; use reprint")
		}
	}

	if s.deps.Events != nil {
		evt := models.OrderCompletedEvent{
			EventType:     models.EventOrderCompleted,
			OrderID:       order.ID.String(),
			OrderNumber:   order.OrderNumber,
			TerminalID:    order.TerminalID,
			Total:         order.Total,
			ItemCount:     order.ItemCount(),
			PaymentMethod: order.PaymentMethod,
			RemoteStored:  handle.Remote,
			OccurredAt:    order.CreatedAt,
		}
		if order.CustomerID != nil {
			evt.CustomerID = *order.CustomerID
		}
		s.deps.Events.OrderCompleted(ctx, evt)
	}

	total, _ := order.Total.Float64()
	dims := map[string]string{"TerminalID": order.TerminalID, "PaymentMethod": string(order.PaymentMethod)}
	_ = s.deps.Metrics.RecordCount(ctx, awspkg.MetricOrdersCompleted, dims)
	_ = s.deps.Metrics.RecordValue(ctx, awspkg.MetricOrderValue, total, dims)
	return warnings
}

func (s *CheckoutSession) lowStock(ctx context.Context, product models.ProductRef, remaining int) {
	s.logger.Warn("Product low on stock",
		zap.String("product_id", product.ProductID),
		zap.Int("remaining", remaining),
		zap.Int("min_stock", product.MinStock))
	_ = s.deps.Metrics.RecordCount(ctx, awspkg.MetricInventoryLow, map[string]string{"ProductID": product.ProductID})
	if err := s.deps.Activity.RecordLowStock(ctx, product, remaining); err != nil {
		s.logger.Warn("Failed to record low stock", zap.Error(err))
	}
}

// Snapshot returns a copy of the session with current pricing.
func (s *CheckoutSession) Snapshot(ctx context.Context) (snap models.SessionSnapshot, err error) {
	err = s.do(ctx, func() {
		pricing := Price(s.cart.Subtotal(), s.discount, s.deps.TaxRate)
		snap = models.SessionSnapshot{
			State:   s.state,
			Lines:   s.cart.Lines(),
			Pricing: pricing,
			Display: pricing.Display(),
		}
		if s.payment != nil {
			snap.PaymentMethod = s.payment.Method()
		}
		if s.customer != nil {
			cp := *s.customer
			snap.Customer = &cp
		}
	})
	return snap, err
}

// LastOrder returns the most recent sale, falling back to the local cache
// when this session has not completed one yet.
func (s *CheckoutSession) LastOrder(ctx context.Context) (*models.Order, error) {
	var last *models.Order
	if err := s.do(ctx, func() { last = s.lastOrder }); err != nil {
		return nil, err
	}
	if last != nil {
		return last, nil
	}
	recent, err := s.deps.Persistence.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &recent[0], nil
}

// Reprint sends the last order to the receipt renderer again.
func (s *CheckoutSession) Reprint(ctx context.Context) (*models.Order, error) {
	order, err := s.LastOrder(ctx)
	if err != nil {
		return nil, err
	}
	if s.deps.Receipts == nil {
		return order, nil
	}
	if err := s.deps.Receipts.Dispatch(ctx, order, true); err != nil {
		return nil, fmt.Errorf("reprint %s: %w", order.OrderNumber, err)
	}
	return order, nil
}

func (s *CheckoutSession) RecentOrders(ctx context.Context, k int) ([]models.Order, error) {
	return s.deps.Persistence.Recent(ctx, k)
}

func (s *CheckoutSession) RecentActivity(ctx context.Context, k int) ([]models.ActivityEvent, error) {
	return s.deps.Activity.Recent(ctx, k)
}
