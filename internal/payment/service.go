package payment

import (
	"context"
	"errors"
	"time"

	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/orders"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var paymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payments_total",
	Help: "Opérations de paiement, par prestataire, étape et résultat",
}, []string{"provider", "step", "result"})

// ReceiptSender envoi du reçu d'achat
type ReceiptSender interface {
	SendPurchaseReceipt(ctx context.Context, order models.Order, to string) error
}

// OrderEvents cache de la page commande et notification "payée"
type OrderEvents interface {
	Invalidate(ctx context.Context, orderID string)
	PublishPaid(ctx context.Context, orderID string)
}

type Service struct {
	repo     orders.Repository
	provider Provider
	locker   Locker
	receipts ReceiptSender
	events   OrderEvents
	now      func() time.Time
	dispatch func(func())
	lockTTL  time.Duration
	lockWait time.Duration
}

type Option func(*Service)

func WithReceipts(r ReceiptSender) Option { return func(s *Service) { s.receipts = r } }
func WithEvents(e OrderEvents) Option     { return func(s *Service) { s.events = e } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDispatcher remplace le lancement asynchrone du reçu (go f() par défaut)
func WithDispatcher(d func(func())) Option { return func(s *Service) { s.dispatch = d } }

func WithLockTimings(ttl, wait time.Duration) Option {
	return func(s *Service) { s.lockTTL, s.lockWait = ttl, wait }
}

func NewService(repo orders.Repository, provider Provider, locker Locker, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		provider: provider,
		locker:   locker,
		now:      time.Now,
		dispatch: func(f func()) { go f() },
		lockTTL:  30 * time.Second,
		lockWait: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayPalOrder crée la commande chez le prestataire pour le total figé
// et mémorise son identifiant dans paymentResult.
func (s *Service) CreatePayPalOrder(ctx context.Context, orderID string) orders.Result {
	log := logging.FromCtx(ctx).With("order_id", orderID, "provider", s.provider.Name())

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return s.fail("create", err)
	}
	if order.IsPaid {
		return s.fail("create", ErrAlreadyPaid)
	}

	// même verrou que la capture : paymentResult.id ne bouge pas pendant une approbation
	release, err := s.locker.Acquire(ctx, lockKey(order.ID.Hex()), s.lockTTL, s.lockWait)
	if err != nil {
		return s.fail("create", err)
	}
	defer release()

	order, err = s.repo.FindByID(ctx, orderID)
	if err != nil {
		return s.fail("create", err)
	}
	if order.IsPaid {
		return s.fail("create", ErrAlreadyPaid)
	}

	created, err := s.provider.CreateOrder(ctx, order.TotalPrice)
	if err != nil {
		log.Error("❌ Création commande prestataire échouée", "error", err)
		return s.fail("create", err)
	}

	result := models.PaymentResult{ID: created.ID, Status: "", EmailAddress: "", PricePaid: "0"}
	if err := s.repo.SetPaymentResult(ctx, order.ID, result); err != nil {
		return s.fail("create", err)
	}

	paymentsTotal.WithLabelValues(s.provider.Name(), "create", "ok").Inc()
	log.Info("💳 Commande prestataire créée", "provider_order_id", created.ID, "amount", order.TotalPrice)
	return orders.Result{
		Success: true,
		Message: "PayPal order created successfully",
		Data:    created.ID,
	}
}

// ApprovePayPalOrder capture le paiement et passe la commande à payée.
// Les approbations concurrentes d'une même commande sont sérialisées par un
// verrou Redis, et la transition isPaid est conditionnelle en base : une seule
// capture aboutit, un seul reçu part.
func (s *Service) ApprovePayPalOrder(ctx context.Context, orderID, providerOrderID string) orders.Result {
	log := logging.FromCtx(ctx).With("order_id", orderID, "provider", s.provider.Name())

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return s.fail("capture", err)
	}
	if order.IsPaid {
		return alreadyPaid()
	}

	release, err := s.locker.Acquire(ctx, lockKey(order.ID.Hex()), s.lockTTL, s.lockWait)
	if err != nil {
		return s.fail("capture", err)
	}
	defer release()

	// relecture sous verrou : un autre appel a pu payer pendant l'attente
	order, err = s.repo.FindByID(ctx, orderID)
	if err != nil {
		return s.fail("capture", err)
	}
	if order.IsPaid {
		return alreadyPaid()
	}
	if order.PaymentResult == nil || order.PaymentResult.ID == "" || order.PaymentResult.ID != providerOrderID {
		log.Warn("⚠️ Identifiant prestataire inattendu", "provider_order_id", providerOrderID)
		return s.fail("capture", ErrPaymentIntegrity)
	}

	captured, err := s.provider.CapturePayment(ctx, providerOrderID)
	if err != nil {
		log.Error("❌ Capture échouée", "error", err)
		return s.fail("capture", err)
	}
	if captured.ID != order.PaymentResult.ID || captured.Status != StatusCompleted {
		log.Warn("⚠️ Capture incohérente", "captured_id", captured.ID, "status", captured.Status)
		return s.fail("capture", ErrPaymentIntegrity)
	}

	paidAt := s.now()
	result := models.PaymentResult{
		ID:           captured.ID,
		Status:       captured.Status,
		EmailAddress: captured.PayerEmail,
		PricePaid:    captured.Amount,
	}
	updated, err := s.repo.MarkPaid(ctx, order.ID, providerOrderID, result, paidAt)
	if err != nil {
		return s.fail("capture", err)
	}
	if !updated {
		// verrou expiré : payée ailleurs, ou paymentResult.id remplacé entre-temps
		current, err := s.repo.FindByID(ctx, orderID)
		if err == nil && current.IsPaid {
			return alreadyPaid()
		}
		log.Error("❌ Capture sans transition isPaid", "provider_order_id", providerOrderID)
		return s.fail("capture", ErrPaymentIntegrity)
	}

	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = &result

	s.afterPaid(ctx, *order, captured.PayerEmail)

	paymentsTotal.WithLabelValues(s.provider.Name(), "capture", "ok").Inc()
	log.Info("✅ Commande payée", "amount", captured.Amount)
	return orders.Result{
		Success: true,
		Message: "Your order has been successfully paid by PayPal",
	}
}

func (s *Service) afterPaid(ctx context.Context, order models.Order, payerEmail string) {
	orderID := order.ID.Hex()
	if s.events != nil {
		s.events.Invalidate(ctx, orderID)
		s.events.PublishPaid(ctx, orderID)
	}
	if s.receipts == nil {
		return
	}

	log := logging.FromCtx(ctx)
	s.dispatch(func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		to, err := s.repo.UserEmail(bg, order.User)
		if err != nil || to == "" {
			to = payerEmail
		}
		if to == "" {
			log.Warn("⚠️ Aucun email pour le reçu", "order_id", orderID)
			return
		}
		if err := s.receipts.SendPurchaseReceipt(bg, order, to); err != nil {
			log.Error("❌ Erreur envoi reçu", "order_id", orderID, "error", err)
			return
		}
		log.Info("📧 Reçu envoyé", "order_id", orderID, "to", to)
	})
}

func (s *Service) fail(step string, err error) orders.Result {
	label := "error"
	switch {
	case errors.Is(err, ErrPaymentIntegrity):
		label = "integrity"
	case errors.Is(err, orders.ErrNotFound):
		label = "not_found"
	}
	paymentsTotal.WithLabelValues(s.provider.Name(), step, label).Inc()
	return failure(err)
}

func alreadyPaid() orders.Result {
	return orders.Result{Success: true, Message: "Order is already paid"}
}
