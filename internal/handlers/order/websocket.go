package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/handlers"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const pingInterval = 30 * time.Second

type paidMessage struct {
	Type   string `json:"type"`
	IsPaid bool   `json:"isPaid"`
}

// 🟢 GET /api/orders/:id/ws
// Pousse {"type":"paid","isPaid":true} dès que la commande est payée puis ferme.
func (h *Handler) PaidSocket(c *gin.Context) {
	id := c.Param("id")
	log := logging.From(c)

	if h.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime updates unavailable"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if errors.Is(err, orders.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	up := handlers.Upgrader(h.origins)
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("❌ Erreur upgrade WebSocket", "error", err)
		return
	}
	defer conn.Close()

	if order.IsPaid {
		_ = conn.WriteJSON(paidMessage{Type: cache.PaidEvent, IsPaid: true})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.cache.Subscribe(ctx, id)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Error("❌ Abonnement Redis", "error", err)
		return
	}

	// payée entre la lecture et l'abonnement
	if fresh, err := h.orders.GetOrder(ctx, id); err == nil && fresh.IsPaid {
		_ = conn.WriteJSON(paidMessage{Type: cache.PaidEvent, IsPaid: true})
		return
	}

	// lecteur : détecte la fermeture côté client
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload == cache.PaidEvent {
				if err := conn.WriteJSON(paidMessage{Type: cache.PaidEvent, IsPaid: true}); err != nil {
					log.Warn("⚠️ Erreur envoi WebSocket", "error", err)
				}
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
