package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecom_back_end/internal/models"
	"ecom_back_end/internal/orders"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepository struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	email  string

	beforeMarkPaid func(id primitive.ObjectID)
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[primitive.ObjectID]models.Order), email: "buyer@example.com"}
}

func (f *fakeRepository) add(o models.Order) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = primitive.NewObjectID()
	f.orders[o.ID] = o
	return o.ID.Hex()
}

func (f *fakeRepository) get(id string) models.Order {
	oid, _ := primitive.ObjectIDFromHex(id)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[oid]
}

func (f *fakeRepository) Insert(_ context.Context, order *models.Order) error {
	f.add(*order)
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	oid, err := orders.ParseID(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok {
		return nil, orders.ErrNotFound
	}
	if o.PaymentResult != nil {
		pr := *o.PaymentResult
		o.PaymentResult = &pr
	}
	return &o, nil
}

func (f *fakeRepository) FindByUser(context.Context, string, int64) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeRepository) SetPaymentResult(_ context.Context, id primitive.ObjectID, result models.PaymentResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.IsPaid {
		return orders.ErrNotFound
	}
	o.PaymentResult = &result
	f.orders[id] = o
	return nil
}

func (f *fakeRepository) MarkPaid(_ context.Context, id primitive.ObjectID, providerOrderID string, result models.PaymentResult, paidAt time.Time) (bool, error) {
	if f.beforeMarkPaid != nil {
		f.beforeMarkPaid(id)
	}
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
	return f.email, nil
}

type fakeProvider struct {
	mu        sync.Mutex
	createIDs []string // ids successifs, puis createID
	createID  string
	createErr error
	status    string
	captureID string // vide = même id que demandé
	captures  int
	amounts   []string
	delay     time.Duration
	onCapture func()
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateOrder(_ context.Context, amount string) (CreatedOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return CreatedOrder{}, providerError("create", p.createErr)
	}
	p.amounts = append(p.amounts, amount)
	if len(p.createIDs) > 0 {
		id := p.createIDs[0]
		p.createIDs = p.createIDs[1:]
		return CreatedOrder{ID: id}, nil
	}
	return CreatedOrder{ID: p.createID}, nil
}

func (p *fakeProvider) CapturePayment(_ context.Context, id string) (Capture, error) {
	if p.onCapture != nil {
		p.onCapture()
	}
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captures++
	capturedID := id
	if p.captureID != "" {
		capturedID = p.captureID
	}
	return Capture{ID: capturedID, Status: p.status, PayerEmail: "payer@paypal.test", Amount: "48.90"}, nil
}

func (p *fakeProvider) captureCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.captures
}

type fakeReceipts struct {
	mu   sync.Mutex
	sent []string
}

func (r *fakeReceipts) SendPurchaseReceipt(_ context.Context, order models.Order, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !order.IsPaid {
		return errors.New("reçu pour une commande non payée")
	}
	r.sent = append(r.sent, to)
	return nil
}

func (r *fakeReceipts) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fakeEvents struct {
	mu          sync.Mutex
	invalidated []string
	published   []string
}

func (e *fakeEvents) Invalidate(_ context.Context, id string) {
	e.mu.Lock()
	e.invalidated = append(e.invalidated, id)
	e.mu.Unlock()
}

func (e *fakeEvents) PublishPaid(_ context.Context, id string) {
	e.mu.Lock()
	e.published = append(e.published, id)
	e.mu.Unlock()
}

// memLocker verrou en mémoire, un mutex par clé
type memLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]chan struct{})}
}

func (l *memLocker) Acquire(ctx context.Context, key string, _, wait time.Duration) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-time.After(wait):
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
