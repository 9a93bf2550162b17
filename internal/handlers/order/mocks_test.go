package order

import (
	"context"
	"sync"
	"sync/atomic"

	"ecom_back_end/internal/models"
	"ecom_back_end/internal/orders"
)

type fakeOrders struct {
	mu       sync.Mutex
	byID     map[string]*models.Order
	created  orders.Result
	lastCart models.Cart
	lastUser string
	gets     atomic.Int32
	err      error

	afterGet func(id string)
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]*models.Order{}}
}

func (f *fakeOrders) put(o *models.Order) {
	f.mu.Lock()
	f.byID[o.ID.Hex()] = o
	f.mu.Unlock()
}

func (f *fakeOrders) setPaid(id string) {
	f.mu.Lock()
	f.byID[id].IsPaid = true
	f.mu.Unlock()
}

func (f *fakeOrders) CreateOrder(_ context.Context, cart models.Cart, userID string) orders.Result {
	f.lastCart, f.lastUser = cart, userID
	return f.created
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (*models.Order, error) {
	f.gets.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	o, ok := f.byID[id]
	if !ok {
		f.mu.Unlock()
		return nil, orders.ErrNotFound
	}
	cp := *o
	f.mu.Unlock()

	if f.afterGet != nil {
		f.afterGet(id)
	}
	return &cp, nil
}

func (f *fakeOrders) ListForUser(_ context.Context, userID string, _ int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.byID {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakePayments struct {
	orderID, providerID string
	result              orders.Result
}

func (f *fakePayments) CreatePayPalOrder(_ context.Context, orderID string) orders.Result {
	f.orderID = orderID
	return f.result
}

func (f *fakePayments) ApprovePayPalOrder(_ context.Context, orderID, providerOrderID string) orders.Result {
	f.orderID, f.providerID = orderID, providerOrderID
	return f.result
}

type fakeCarts struct {
	cleared []string
}

func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	f.cleared = append(f.cleared, userID)
	return nil
}
