package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishOrderCompleted(t *testing.T) {
	w := &captureWriter{}
	p := newProducerWithWriter(w, "pos.orders", zap.NewNop())

	evt := models.OrderCompletedEvent{
		EventType:     models.EventOrderCompleted,
		OrderID:       "o-1",
		OrderNumber:   "ORD-1",
		TerminalID:    "till-1",
		Total:         decimal.NewFromInt(2124),
		ItemCount:     2,
		PaymentMethod: models.PaymentMethodUPI,
		OccurredAt:    time.Now(),
	}
	require.NoError(t, p.PublishOrderCompleted(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))

	var got models.OrderCompletedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "ORD-1", got.OrderNumber)
	assert.True(t, got.Total.Equal(evt.Total))
}

func TestPublishOrderCompleted_WriterError(t *testing.T) {
	p := newProducerWithWriter(&captureWriter{err: errors.New("no brokers")}, "pos.orders", zap.NewNop())
	err := p.PublishOrderCompleted(context.Background(), models.OrderCompletedEvent{OrderID: "o-1"})
	assert.Error(t, err)
}
