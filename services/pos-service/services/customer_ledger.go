package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

// CustomerLedgerUpdater folds committed orders into per-customer totals.
type CustomerLedgerUpdater struct {
	store   repository.CustomerStore
	now     func() time.Time
	metrics MetricsRecorder
	logger  *zap.Logger
}

func NewCustomerLedgerUpdater(store repository.CustomerStore, now func() time.Time, metrics MetricsRecorder, logger *zap.Logger) *CustomerLedgerUpdater {
	if now == nil {
		now = time.Now
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CustomerLedgerUpdater{store: store, now: now, metrics: metrics, logger: logger}
}

// LoyaltyPoints is one point per full 100 of the order total.
func LoyaltyPoints(order *models.Order) int64 {
	return order.Total.Shift(-2).Floor().IntPart()
}

// Apply records order against the customer in ref. A nil entry and nil error
// mean the order carried no customer. Errors wrap ErrLedgerUpdateFailed.
func (u *CustomerLedgerUpdater) Apply(ctx context.Context, order *models.Order, ref models.CustomerRef) (*models.CustomerLedgerEntry, error) {
	if ref.IsZero() {
		return nil, nil
	}

	entry, err := u.findByIDOrPhoneOrName(ctx, ref)
	if err != nil {
		return nil, u.fail(ctx, order, err)
	}

	now := u.now()
	if entry == nil {
		id := ref.CustomerID
		if id == "" {
			id = uuid.NewString()
		}
		entry = &models.CustomerLedgerEntry{
			CustomerID: id,
			Name:       ref.Name,
			Phone:      ref.Phone,
			Email:      ref.Email,
			JoinedAt:   now,
		}
	}

	entry.TotalPurchases++
	entry.TotalSpent = entry.TotalSpent.Add(order.Total)
	entry.LastPurchaseAt = now
	entry.LoyaltyPoints += LoyaltyPoints(order)

	if err := u.store.Upsert(ctx, entry); err != nil {
		return nil, u.fail(ctx, order, err)
	}
	u.logger.Info("Customer ledger updated",
		zap.String("customer_id", entry.CustomerID),
		zap.String("order_id", order.ID.String()),
		zap.Int("total_purchases", entry.TotalPurchases),
		zap.Int64("loyalty_points", entry.LoyaltyPoints))
	return entry, nil
}

func (u *CustomerLedgerUpdater) findByIDOrPhoneOrName(ctx context.Context, ref models.CustomerRef) (*models.CustomerLedgerEntry, error) {
	if ref.CustomerID != "" {
		e, err := u.store.FindByID(ctx, ref.CustomerID)
		if err != nil || e != nil {
			return e, err
		}
	}
	if ref.Phone != "" {
		e, err := u.store.FindByPhone(ctx, ref.Phone)
		if err != nil || e != nil {
			return e, err
		}
	}
	if ref.Name != "" {
		return u.store.FindByName(ctx, ref.Name)
	}
	return nil, nil
}

func (u *CustomerLedgerUpdater) fail(ctx context.Context, order *models.Order, err error) error {
	u.logger.Error("Customer ledger update failed", zap.String("order_id", order.ID.String()), zap.Error(err))
	_ = u.metrics.RecordCount(ctx, awspkg.MetricLedgerUpdateFailed, nil)
	return apperrors.Wrap(apperrors.ErrLedgerUpdateFailed, err)
}
