package order

import (
	"context"
	"errors"
	"net/http"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/middleware"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

const mineLimit = 50

type OrderService interface {
	CreateOrder(ctx context.Context, cart models.Cart, userID string) orders.Result
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Order, error)
}

type PaymentService interface {
	CreatePayPalOrder(ctx context.Context, orderID string) orders.Result
	ApprovePayPalOrder(ctx context.Context, orderID, providerOrderID string) orders.Result
}

// CartClearer panier serveur vidé après une commande réussie
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

type Handler struct {
	orders   OrderService
	payments PaymentService
	carts    CartClearer
	cache    *cache.Orders
	origins  []string
	sfg      singleflight.Group
}

func NewHandler(orderSvc OrderService, payments PaymentService, carts CartClearer, orderCache *cache.Orders, origins []string) *Handler {
	return &Handler{orders: orderSvc, payments: payments, carts: carts, cache: orderCache, origins: origins}
}

// 🟢 POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var cart models.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		c.JSON(http.StatusBadRequest, orders.Result{Success: false, Message: "Invalid cart payload"})
		return
	}

	userID := middleware.UserID(c)
	res := h.orders.CreateOrder(c.Request.Context(), cart, userID)
	if res.Success && h.carts != nil {
		if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
			logging.From(c).Warn("⚠️ Panier non vidé après commande", "error", err)
		}
	}
	c.JSON(http.StatusOK, res)
}

// 🟢 GET /api/orders/:id
func (h *Handler) GetOrderStatus(c *gin.Context) {
	order, err := h.lookup(c.Request.Context(), c.Param("id"))
	if errors.Is(err, orders.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		logging.From(c).Error("❌ Lecture commande", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPaid": order.IsPaid})
}

// 🟢 GET /api/orders/mine
func (h *Handler) ListMine(c *gin.Context) {
	userID := middleware.UserID(c)
	list, err := h.orders.ListForUser(c.Request.Context(), userID, mineLimit)
	if err != nil {
		logging.From(c).Error("❌ Lecture commandes utilisateur", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	c.JSON(http.StatusOK, list)
}

// lookup cache Redis puis MongoDB ; les requêtes simultanées sur une même
// commande partagent un seul aller-retour. Seules les commandes payées sont
// mises en cache.
func (h *Handler) lookup(ctx context.Context, id string) (*models.Order, error) {
	v, err, _ := h.sfg.Do(id, func() (interface{}, error) {
		if h.cache != nil {
			if order, err := h.cache.Get(ctx, id); err == nil {
				return order, nil
			} else if !errors.Is(err, cache.ErrCacheMiss) {
				logging.FromCtx(ctx).Warn("⚠️ Cache commande indisponible", "error", err)
			}
		}

		order, err := h.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		// seul l'état payé est définitif : une commande non payée relue
		// avant une invalidation ne doit pas revenir dans le cache
		if h.cache != nil && order.IsPaid {
			if err := h.cache.Set(ctx, order); err != nil {
				logging.FromCtx(ctx).Warn("⚠️ Mise en cache commande échouée", "error", err)
			}
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Order), nil
}
