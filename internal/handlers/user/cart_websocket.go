package user

import (
	"context"
	"time"

	"ecom_back_end/internal/handlers"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const pingInterval = 30 * time.Second

// CartWebSocket synchronise le panier entre les onglets / appareils d'un utilisateur
func (h *CartHandler) CartWebSocket(c *gin.Context) {
	userID := middleware.UserID(c)
	log := logging.From(c)

	up := handlers.Upgrader(h.origins)
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("❌ Erreur upgrade WebSocket", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.carts.Subscribe(ctx, userID)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Error("❌ Abonnement Redis", "error", err)
		return
	}

	if !h.push(ctx, conn, userID, "connected") {
		return
	}

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
			if msg.Payload == "updated" || msg.Payload == "cleared" {
				if !h.push(ctx, conn, userID, "cart_"+msg.Payload) {
					return
				}
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

func (h *CartHandler) push(ctx context.Context, conn *websocket.Conn, userID, event string) bool {
	current, err := h.carts.Get(ctx, userID)
	if err != nil {
		logging.FromCtx(ctx).Warn("⚠️ Lecture panier pour WebSocket", "error", err)
		return true
	}
	if err := conn.WriteJSON(gin.H{"type": event, "cart": current}); err != nil {
		return false
	}
	return true
}
