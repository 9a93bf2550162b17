package orders

import (
	"context"
	"sync"
	"time"

	"ecom_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepository struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	insertErr error
	inserts   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[primitive.ObjectID]models.Order)}
}

func (f *fakeRepository) Insert(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = *order
	f.inserts++
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (f *fakeRepository) FindByUser(_ context.Context, userID string, _ int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepository) SetPaymentResult(_ context.Context, id primitive.ObjectID, result models.PaymentResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.IsPaid {
		return ErrNotFound
	}
	o.PaymentResult = &result
	f.orders[id] = o
	return nil
}

func (f *fakeRepository) MarkPaid(_ context.Context, id primitive.ObjectID, providerOrderID string, result models.PaymentResult, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.IsPaid || o.PaymentResult == nil || o.PaymentResult.ID != providerOrderID {
		return false, nil
	}
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentResult = &result
	f.orders[id] = o
	return true, nil
}

func (f *fakeRepository) UserEmail(context.Context, string) (string, error) {
	return "buyer@example.com", nil
}
