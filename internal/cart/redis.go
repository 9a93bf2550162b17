package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"

	"github.com/redis/go-redis/v9"
)

const (
	CartTTL      = 30 * 24 * time.Hour
	maxTxRetries = 5
)

var ErrConcurrentUpdate = errors.New("panier modifié en parallèle, réessayez")

func Key(userID string) string       { return "cart:" + userID }
func EventsKey(userID string) string { return "cart_events:" + userID }

// Service panier serveur : un panier JSON par utilisateur dans Redis
type Service struct {
	rdb  *redis.Client
	calc pricing.Calculator
	now  func() time.Time
}

func NewService(rdb *redis.Client, calc pricing.Calculator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{rdb: rdb, calc: calc, now: now}
}

// Get retourne le panier recalculé (vide si absent)
func (s *Service) Get(ctx context.Context, userID string) (models.Cart, error) {
	c, err := s.load(ctx, s.rdb, userID)
	if err != nil {
		return models.Cart{}, err
	}
	store := NewStore(c, s.calc, s.now)
	if err := store.Reprice(); err != nil {
		return models.Cart{}, err
	}
	return store.Cart(), nil
}

// Update applique fn au panier dans une transaction WATCH/MULTI, sauvegarde
// puis publie "updated" sur le canal de l'utilisateur.
func (s *Service) Update(ctx context.Context, userID string, fn func(*Store) error) (models.Cart, error) {
	key := Key(userID)
	var result models.Cart

	txf := func(tx *redis.Tx) error {
		c, err := s.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		store := NewStore(c, s.calc, s.now)
		if err := fn(store); err != nil {
			return err
		}
		result = store.Cart()

		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encodage panier: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, CartTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			s.rdb.Publish(ctx, EventsKey(userID), "updated")
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return models.Cart{}, err
	}
	return models.Cart{}, ErrConcurrentUpdate
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("suppression panier: %w", err)
	}
	s.rdb.Publish(ctx, EventsKey(userID), "cleared")
	return nil
}

// Subscribe abonnement aux événements du panier d'un utilisateur
func (s *Service) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, EventsKey(userID))
}

func (s *Service) load(ctx context.Context, r redis.Cmdable, userID string) (models.Cart, error) {
	data, err := r.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Cart{Items: []models.OrderItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("lecture panier: %w", err)
	}
	var c models.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Cart{}, fmt.Errorf("décodage panier: %w", err)
	}
	return c, nil
}
