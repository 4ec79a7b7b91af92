package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/errors"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// --- Mock Stock Ledger ---

type fakeLedger struct {
	mu       sync.Mutex
	products map[string]models.ProductRef
	err      error
	reads    int
}

func newFakeLedger(products ...models.ProductRef) *fakeLedger {
	l := &fakeLedger{products: make(map[string]models.ProductRef)}
	for _, p := range products {
		l.products[p.ProductID] = p
	}
	return l
}

func (l *fakeLedger) setStock(productID string, stock int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.products[productID]
	p.CurrentStock = stock
	l.products[productID] = p
}

func (l *fakeLedger) LookupByBarcode(_ context.Context, code string) (*models.ProductRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	for _, p := range l.products {
		if p.Barcode == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrProductNotFound
}

func (l *fakeLedger) Product(_ context.Context, productID string) (*models.ProductRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	p, ok := l.products[productID]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (l *fakeLedger) CurrentStock(ctx context.Context, productID string) (int, error) {
	l.mu.Lock()
	l.reads++
	l.mu.Unlock()
	p, err := l.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.CurrentStock, nil
}

func product(id, barcode, price string, stock int, tracked bool) models.ProductRef {
	return models.ProductRef{
		ProductID:    id,
		Name:         "Product " + id,
		UnitPrice:    decimal.RequireFromString(price),
		Barcode:      barcode,
		CurrentStock: stock,
		MinStock:     1,
		StockTracked: tracked,
	}
}

// --- Mock Order Store ---

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
	err    error
	block  chan struct{}
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *fakeOrderStore) Insert(ctx context.Context, o *models.Order) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.orders[o.ID]; !ok {
		s.orders[o.ID] = o
	}
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.orders[id], nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// --- Mock Local Cache ---

type fakeCache struct {
	mu     sync.Mutex
	orders []models.Order
	size   int
	err    error
}

func newFakeCache(size int) *fakeCache {
	return &fakeCache{size: size}
}

func (c *fakeCache) Append(_ context.Context, o *models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.orders = append([]models.Order{*o}, c.orders...)
	if len(c.orders) > c.size {
		c.orders = c.orders[:c.size]
	}
	return nil
}

func (c *fakeCache) ReadRecent(_ context.Context, k int) ([]models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if k > len(c.orders) {
		k = len(c.orders)
	}
	out := make([]models.Order, k)
	copy(out, c.orders[:k])
	return out, nil
}

// --- Mock Customer Store ---

type fakeCustomers struct {
	mu      sync.Mutex
	entries []*models.CustomerLedgerEntry
	err     error
}

func (f *fakeCustomers) find(match func(e *models.CustomerLedgerEntry) bool) (*models.CustomerLedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.entries {
		if match(e) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) FindByID(_ context.Context, id string) (*models.CustomerLedgerEntry, error) {
	return f.find(func(e *models.CustomerLedgerEntry) bool { return e.CustomerID == id })
}

func (f *fakeCustomers) FindByPhone(_ context.Context, phone string) (*models.CustomerLedgerEntry, error) {
	return f.find(func(e *models.CustomerLedgerEntry) bool { return e.Phone == phone })
}

func (f *fakeCustomers) FindByName(_ context.Context, name string) (*models.CustomerLedgerEntry, error) {
	return f.find(func(e *models.CustomerLedgerEntry) bool { return e.Name == name })
}

func (f *fakeCustomers) Upsert(_ context.Context, entry *models.CustomerLedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, e := range f.entries {
		if e.CustomerID == entry.CustomerID {
			cp := *entry
			f.entries[i] = &cp
			return nil
		}
	}
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeCustomers) byID(id string) *models.CustomerLedgerEntry {
	e, _ := f.FindByID(context.Background(), id)
	return e
}

// --- Mock Activity Log ---

type fakeActivity struct {
	mu     sync.Mutex
	events []models.ActivityEvent
	err    error
}

func (f *fakeActivity) Append(_ context.Context, e *models.ActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append([]models.ActivityEvent{*e}, f.events...)
	return nil
}

func (f *fakeActivity) Recent(_ context.Context, k int) ([]models.ActivityEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if k <= 0 || k > len(f.events) {
		k = len(f.events)
	}
	return append([]models.ActivityEvent(nil), f.events[:k]...), nil
}

func (f *fakeActivity) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

var errBoom = errors.New("boom")

func newID() uuid.UUID { return uuid.New() }
