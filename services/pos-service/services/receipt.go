package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// ReceiptDispatcher hands a finalized order to the receipt renderer.
type ReceiptDispatcher interface {
	Dispatch(ctx context.Context, order *models.Order, reprint bool) error
}

// MessageSender is satisfied by pkg/aws.SQSSender.
type MessageSender interface {
	SendMessage(ctx context.Context, body string, attributes map[string]string) error
}

// QueueReceiptDispatcher sends receipt jobs to the renderer's queue.
type QueueReceiptDispatcher struct {
	sender MessageSender
	now    func() time.Time
}

func NewQueueReceiptDispatcher(sender MessageSender, now func() time.Time) *QueueReceiptDispatcher {
	if now == nil {
		now = time.Now
	}
	return &QueueReceiptDispatcher{sender: sender, now: now}
}

func (d *QueueReceiptDispatcher) Dispatch(ctx context.Context, order *models.Order, reprint bool) error {
	body, err := json.Marshal(models.ReceiptJob{Order: order, RequestedAt: d.now(), Reprint: reprint})
	if err != nil {
		return err
	}
	return d.sender.SendMessage(ctx, string(body), map[string]string{
		"order_number": order.OrderNumber,
		"terminal_id":  order.TerminalID,
		"reprint":      strconv.FormatBool(reprint),
	})
}
