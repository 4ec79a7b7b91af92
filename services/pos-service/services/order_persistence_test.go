package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

type countingMetrics struct {
	counts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: make(map[string]int)}
}

func (m *countingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.counts[name]++
	return nil
}

func (m *countingMetrics) RecordValue(_ context.Context, name string, _ float64, _ map[string]string) error {
	m.counts[name]++
	return nil
}

func TestPersist_BothWritesSucceed(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	p := services.NewOrderPersistence(remote, local, time.Second, nil, zap.NewNop())
	order := testOrder()

	res, err := p.Persist(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, res.Handle.Remote)
	assert.True(t, res.Handle.Local)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, order.OrderNumber, res.Handle.OrderNumber)
}

func TestPersist_RemoteFailsStillCompletesLocally(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	remote.err = errBoom
	metrics := newCountingMetrics()
	p := services.NewOrderPersistence(remote, local, time.Second, metrics, zap.NewNop())
	order := testOrder()

	res, err := p.Persist(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, res.Handle.Remote)
	assert.True(t, res.Handle.Local)
	assert.Equal(t, []string{apperrors.ErrRemoteCommitFailed.Message}, res.Warnings)
	assert.Equal(t, 1, metrics.counts["RemoteCommitFailed"])

	recent, err := p.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, order.ID, recent[0].ID)
}

func TestPersist_LocalFailureDoesNotBlock(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	local.err = errBoom
	p := services.NewOrderPersistence(remote, local, time.Second, nil, zap.NewNop())

	res, err := p.Persist(context.Background(), testOrder())
	require.NoError(t, err)
	assert.True(t, res.Handle.Remote)
	assert.False(t, res.Handle.Local)
	assert.Empty(t, res.Warnings)
}

func TestPersist_BothFail(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	remote.err = errors.New("remote down")
	local.err = errors.New("disk full")
	p := services.NewOrderPersistence(remote, local, time.Second, nil, zap.NewNop())

	res, err := p.Persist(context.Background(), testOrder())
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, apperrors.ErrCommitFailed))
	assert.ErrorContains(t, err, "remote down")
	assert.ErrorContains(t, err, "disk full")
}

func TestPersist_RemoteTimeout(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	remote.block = make(chan struct{})
	p := services.NewOrderPersistence(remote, local, 20*time.Millisecond, nil, zap.NewNop())

	res, err := p.Persist(context.Background(), testOrder())
	require.NoError(t, err)
	assert.False(t, res.Handle.Remote)
	assert.NotEmpty(t, res.Warnings)
}

func TestPersist_RetryDoesNotDuplicate(t *testing.T) {
	remote, local := newFakeOrderStore(), newFakeCache(200)
	p := services.NewOrderPersistence(remote, local, time.Second, nil, zap.NewNop())
	order := testOrder()

	_, err := p.Persist(context.Background(), order)
	require.NoError(t, err)
	require.NoError(t, remote.Insert(context.Background(), order))
	assert.Equal(t, 1, remote.count())
}

func testOrder() *models.Order {
	b := services.Price(d("2000"), d("10"), d("18"))
	now := time.Now()
	id := newID()
	return &models.Order{
		ID:              id,
		OrderNumber:     services.OrderNumber(now, id),
		TerminalID:      "till-1",
		CreatedAt:       now,
		Subtotal:        b.Subtotal,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		TaxRate:         b.TaxRate,
		TaxAmount:       b.TaxAmount,
		Total:           b.Total,
		PaymentMethod:   models.PaymentMethodCash,
		Lines: []models.OrderLine{{
			ID: newID(), OrderID: id, ProductID: "p-1", ProductName: "Kettle",
			Quantity: 2, UnitPrice: d("1000"), LineTotal: d("2000"),
		}},
	}
}
