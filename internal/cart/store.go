package cart

import (
	"errors"
	"sync"
	"time"

	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound    = errors.New("article absent du panier")
	ErrInvalidQuantity = errors.New("quantité invalide")
)

// Store détient l'état d'un panier. Chaque mutation recalcule les prix puis
// notifie les abonnés avec une copie du panier.
type Store struct {
	mu          sync.Mutex
	cart        models.Cart
	calc        pricing.Calculator
	now         func() time.Time
	subscribers map[int]func(models.Cart)
	nextSub     int
}

func NewStore(initial models.Cart, calc pricing.Calculator, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	if initial.Items == nil {
		initial.Items = []models.OrderItem{}
	}
	return &Store{
		cart:        initial,
		calc:        calc,
		now:         now,
		subscribers: make(map[int]func(models.Cart)),
	}
}

// Subscribe retourne la fonction de désabonnement
func (s *Store) Subscribe(fn func(models.Cart)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.cart)
}

// AddItem fusionne sur (produit, couleur, taille) et retourne le clientId de la ligne
func (s *Store) AddItem(item models.OrderItem, quantity int) (string, error) {
	if quantity < 1 {
		return "", ErrInvalidQuantity
	}
	var clientID string
	err := s.mutate(func(c *models.Cart) {
		for i := range c.Items {
			if c.Items[i].SameVariant(item) {
				c.Items[i].Quantity += quantity
				clientID = c.Items[i].ClientID
				return
			}
		}
		item.Quantity = quantity
		if item.ClientID == "" {
			item.ClientID = uuid.NewString()
		}
		c.Items = append(c.Items, item)
		clientID = item.ClientID
	})
	if err != nil {
		return "", err
	}
	return clientID, nil
}

// UpdateItem remplace la quantité de la ligne correspondante
func (s *Store) UpdateItem(item models.OrderItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	found := false
	err := s.mutate(func(c *models.Cart) {
		for i := range c.Items {
			if c.Items[i].SameVariant(item) {
				c.Items[i].Quantity = quantity
				found = true
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrItemNotFound
	}
	return nil
}

func (s *Store) RemoveItem(item models.OrderItem) error {
	return s.mutate(func(c *models.Cart) {
		kept := c.Items[:0]
		for _, x := range c.Items {
			if !x.SameVariant(item) {
				kept = append(kept, x)
			}
		}
		c.Items = kept
	})
}

func (s *Store) ClearCart() error {
	return s.mutate(func(c *models.Cart) {
		c.Items = []models.OrderItem{}
	})
}

func (s *Store) SetShippingAddress(addr models.ShippingAddress) error {
	return s.mutate(func(c *models.Cart) {
		c.ShippingAddress = &addr
	})
}

func (s *Store) SetPaymentMethod(method string) error {
	return s.mutate(func(c *models.Cart) {
		c.PaymentMethod = method
	})
}

func (s *Store) SetDeliveryDateIndex(index int) error {
	return s.mutate(func(c *models.Cart) {
		c.DeliveryDateIndex = &index
	})
}

// Reprice recalcule sans rien modifier (panier relu depuis le stockage)
func (s *Store) Reprice() error {
	return s.mutate(func(*models.Cart) {})
}

func (s *Store) mutate(fn func(*models.Cart)) error {
	s.mu.Lock()
	next := snapshot(s.cart)
	fn(&next)

	b, err := s.calc.Calculate(next.Items, next.ShippingAddress, next.DeliveryDateIndex, s.now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	b.ApplyTo(&next)
	s.cart = next

	out := snapshot(next)
	subs := make([]func(models.Cart), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(out)
	}
	return nil
}

func snapshot(c models.Cart) models.Cart {
	out := c
	out.Items = append([]models.OrderItem(nil), c.Items...)
	if out.Items == nil {
		out.Items = []models.OrderItem{}
	}
	if c.ShippingAddress != nil {
		addr := *c.ShippingAddress
		out.ShippingAddress = &addr
	}
	return out
}
