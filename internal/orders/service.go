package orders

import (
	"context"
	"time"

	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "orders_created_total",
	Help: "Commandes créées, par résultat",
}, []string{"result"})

type Service struct {
	repo           Repository
	calc           pricing.Calculator
	validator      *Validator
	now            func() time.Time
	defaultPayment string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithDefaultPaymentMethod(method string) Option {
	return func(s *Service) {
		if method != "" {
			s.defaultPayment = method
		}
	}
}

func NewService(repo Repository, calc pricing.Calculator, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		calc:           calc,
		now:            time.Now,
		defaultPayment: "PayPal",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(s.now)
	return s
}

// CreateOrder action exposée : aucune erreur ne remonte, tout finit dans Result
func (s *Service) CreateOrder(ctx context.Context, cart models.Cart, userID string) Result {
	log := logging.FromCtx(ctx)
	if userID == "" {
		ordersCreated.WithLabelValues("unauthenticated").Inc()
		return Failure(ErrUnauthenticated)
	}

	order, err := s.CreateOrderFromCart(ctx, cart, userID)
	if err != nil {
		ordersCreated.WithLabelValues("failed").Inc()
		log.Warn("❌ Création commande refusée", "user_id", userID, "error", err)
		return Failure(err)
	}

	ordersCreated.WithLabelValues("created").Inc()
	log.Info("✅ Commande créée", "order_id", order.ID.Hex(), "user_id", userID, "total", order.TotalPrice)
	return Result{
		Success: true,
		Message: "Order placed successfully",
		Data:    map[string]string{"orderId": order.ID.Hex()},
	}
}

// CreateOrderFromCart recalcule tous les prix côté serveur : ceux du client sont ignorés
func (s *Service) CreateOrderFromCart(ctx context.Context, cart models.Cart, userID string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	now := s.now()
	b, err := s.calc.Calculate(cart.Items, cart.ShippingAddress, cart.DeliveryDateIndex, now)
	if err != nil {
		return nil, err
	}

	paymentMethod := cart.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = s.defaultPayment
	}

	order := &models.Order{
		User:                 userID,
		Items:                cart.Items,
		PaymentMethod:        paymentMethod,
		ItemsPrice:           pricing.FormatPrice(b.ItemsPrice),
		ShippingPrice:        pricing.FormatOptional(b.ShippingPrice),
		TaxPrice:             pricing.FormatPrice(b.TaxPrice),
		TotalPrice:           pricing.FormatPrice(b.TotalPrice),
		ExpectedDeliveryDate: b.ExpectedDeliveryDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if cart.ShippingAddress != nil {
		order.ShippingAddress = *cart.ShippingAddress
	}

	if err := s.validator.Struct(order); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.FindByUser(ctx, userID, limit)
}
