package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
)

type ReconcileReport struct {
	Scanned    int `json:"scanned"`
	Present    int `json:"present"`
	Mismatched int `json:"mismatched"`
	Replayed   int `json:"replayed"`
	Failed     int `json:"failed"`
}

// OrderReconciler replays cached orders the remote store never received. It
// only runs when an operator starts it.
type OrderReconciler struct {
	local  repository.LocalOrderCache
	remote repository.OrderStore
	logger *zap.Logger
}

func NewOrderReconciler(local repository.LocalOrderCache, remote repository.OrderStore, logger *zap.Logger) *OrderReconciler {
	return &OrderReconciler{local: local, remote: remote, logger: logger}
}

// Reconcile walks up to limit cached orders, oldest first, and inserts the
// ones missing remotely. A remote copy whose total differs from the cached one
// is counted as Mismatched and left alone. With dryRun nothing is written.
func (r *OrderReconciler) Reconcile(ctx context.Context, limit int, dryRun bool) (ReconcileReport, error) {
	var report ReconcileReport

	orders, err := r.local.ReadRecent(ctx, limit)
	if err != nil {
		return report, err
	}

	for i := len(orders) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o := &orders[i]
		report.Scanned++
		log := r.logger.With(zap.String("order_id", o.ID.String()), zap.String("order_number", o.OrderNumber))

		stored, err := r.remote.FindByID(ctx, o.ID)
		if err != nil {
			report.Failed++
			log.Error("Remote lookup failed", zap.Error(err))
			continue
		}
		if stored != nil {
			if !stored.Total.Equal(o.Total) {
				report.Mismatched++
				log.Warn("Remote order total differs from cached copy",
					zap.String("remote_total", stored.Total.String()),
					zap.String("cached_total", o.Total.String()))
				continue
			}
			report.Present++
			continue
		}
		if dryRun {
			log.Info("Would replay order")
			report.Replayed++
			continue
		}
		if err := r.remote.Insert(ctx, o); err != nil {
			report.Failed++
			log.Error("Replay failed", zap.Error(err))
			continue
		}
		report.Replayed++
		log.Info("Order replayed")
	}
	return report, nil
}
