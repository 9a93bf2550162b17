package cache

import (
	"context"
	"log/slog"

	"ecom_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const PaidEvent = "paid"

func orderKey(id string) string     { return "order:" + id }
func OrderChannel(id string) string { return "order_events:" + id }

// Orders cache de la vue commande + événements "payée" via pub/sub
type Orders struct {
	rdb *redis.Client
}

func NewOrders(rdb *redis.Client) *Orders {
	return &Orders{rdb: rdb}
}

func (o *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := GetJSON(ctx, o.rdb, orderKey(id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Orders) Set(ctx context.Context, order *models.Order) error {
	return SetJSON(ctx, o.rdb, orderKey(order.ID.Hex()), order, OrderCacheTTL)
}

func (o *Orders) Invalidate(ctx context.Context, id string) {
	if err := o.rdb.Del(ctx, orderKey(id)).Err(); err != nil {
		slog.Warn("⚠️ Invalidation cache commande échouée", "order_id", id, "error", err)
	}
}

func (o *Orders) PublishPaid(ctx context.Context, id string) {
	if err := o.rdb.Publish(ctx, OrderChannel(id), PaidEvent).Err(); err != nil {
		slog.Warn("⚠️ Publication paiement échouée", "order_id", id, "error", err)
	}
}

func (o *Orders) Subscribe(ctx context.Context, id string) *redis.PubSub {
	return o.rdb.Subscribe(ctx, OrderChannel(id))
}
