package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

// PersistResult is the outcome of a dual write. Warnings are meant for the
// operator; they never mean the sale failed.
type PersistResult struct {
	Handle   models.OrderHandle
	Warnings []string
}

// OrderPersistence writes a finalized order to the remote store and to the
// terminal's local cache. It does not retry.
type OrderPersistence struct {
	remote        repository.OrderStore
	local         repository.LocalOrderCache
	remoteTimeout time.Duration
	metrics       MetricsRecorder
	logger        *zap.Logger
}

func NewOrderPersistence(
	remote repository.OrderStore,
	local repository.LocalOrderCache,
	remoteTimeout time.Duration,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *OrderPersistence {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &OrderPersistence{
		remote:        remote,
		local:         local,
		remoteTimeout: remoteTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

// Persist attempts both writes independently. It fails only when neither
// store accepted the order; that error wraps ErrCommitFailed.
func (p *OrderPersistence) Persist(ctx context.Context, order *models.Order) (*PersistResult, error) {
	res := &PersistResult{Handle: models.OrderHandle{OrderID: order.ID, OrderNumber: order.OrderNumber}}
	log := p.logger.With(zap.String("order_id", order.ID.String()), zap.String("order_number", order.OrderNumber))

	remoteErr := p.writeRemote(ctx, order)
	if remoteErr == nil {
		res.Handle.Remote = true
	} else {
		log.Warn("Remote order write failed", zap.Error(remoteErr))
		_ = p.metrics.RecordCount(ctx, awspkg.MetricRemoteCommitFailed, nil)
	}

	localErr := p.local.Append(ctx, order)
	if localErr == nil {
		res.Handle.Local = true
	} else {
		log.Error("Local order cache append failed", zap.Error(localErr))
		_ = p.metrics.RecordCount(ctx, awspkg.MetricLocalCacheFailed, nil)
	}

	if remoteErr != nil && localErr != nil {
		return nil, apperrors.Wrap(apperrors.ErrCommitFailed, errors.Join(remoteErr, localErr))
	}
	if remoteErr != nil {
		res.Warnings = append(res.Warnings, apperrors.ErrRemoteCommitFailed.Message)
	}
	return res, nil
}

func (p *OrderPersistence) writeRemote(ctx context.Context, order *models.Order) error {
	if p.remote == nil {
		return errors.New("remote order store not configured")
	}
	if p.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.remoteTimeout)
		defer cancel()
	}
	return p.remote.Insert(ctx, order)
}

// Recent returns up to k cached orders, newest first.
func (p *OrderPersistence) Recent(ctx context.Context, k int) ([]models.Order, error) {
	return p.local.ReadRecent(ctx, k)
}
