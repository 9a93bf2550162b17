package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecom_back_end/internal/cart"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/middleware"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type CartService interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Update(ctx context.Context, userID string, fn func(*cart.Store) error) (models.Cart, error)
	Clear(ctx context.Context, userID string) error
	Subscribe(ctx context.Context, userID string) *redis.PubSub
}

type CartHandler struct {
	carts   CartService
	calc    pricing.Calculator
	now     func() time.Time
	origins []string
}

func NewCartHandler(carts CartService, calc pricing.Calculator, now func() time.Time, origins []string) *CartHandler {
	if now == nil {
		now = time.Now
	}
	return &CartHandler{carts: carts, calc: calc, now: now, origins: origins}
}

type addItemRequest struct {
	Item     models.OrderItem `json:"item"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type deliveryDateRequest struct {
	Index *int `json:"deliveryDateIndex" binding:"required,min=0"`
}

type priceRequest struct {
	Items             []models.OrderItem      `json:"items"`
	ShippingAddress   *models.ShippingAddress `json:"shippingAddress"`
	DeliveryDateIndex *int                    `json:"deliveryDateIndex"`
}

// 🟢 GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userCart, err := h.carts.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userCart)
}

// 🟢 POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Item.Product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item"})
		return
	}

	var clientID string
	updated, err := h.carts.Update(c.Request.Context(), middleware.UserID(c), func(s *cart.Store) error {
		id, err := s.AddItem(req.Item, req.Quantity)
		clientID = id
		return err
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientId": clientID, "cart": updated})
}

// 🟢 PUT /api/cart/items/:clientId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}
	h.update(c, func(s *cart.Store) error {
		item, ok := findLine(s, c.Param("clientId"))
		if !ok {
			return cart.ErrItemNotFound
		}
		return s.UpdateItem(item, req.Quantity)
	})
}

// 🟢 DELETE /api/cart/items/:clientId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.update(c, func(s *cart.Store) error {
		item, ok := findLine(s, c.Param("clientId"))
		if !ok {
			return cart.ErrItemNotFound
		}
		return s.RemoveItem(item)
	})
}

// 🟢 DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// 🟢 PUT /api/cart/shipping-address
func (h *CartHandler) SetShippingAddress(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipping address"})
		return
	}
	h.update(c, func(s *cart.Store) error { return s.SetShippingAddress(addr) })
}

// 🟢 PUT /api/cart/payment-method
func (h *CartHandler) SetPaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method is required"})
		return
	}
	h.update(c, func(s *cart.Store) error { return s.SetPaymentMethod(req.PaymentMethod) })
}

// 🟢 PUT /api/cart/delivery-date
func (h *CartHandler) SetDeliveryDate(c *gin.Context) {
	var req deliveryDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery date"})
		return
	}
	if *req.Index >= len(h.calc.DeliveryDates) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery date"})
		return
	}
	h.update(c, func(s *cart.Store) error { return s.SetDeliveryDateIndex(*req.Index) })
}

// 🟢 POST /api/cart/price
// Aperçu des montants pour un panier non persisté (invité)
func (h *CartHandler) Price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart payload"})
		return
	}
	if req.Items == nil {
		req.Items = []models.OrderItem{}
	}

	b, err := h.calc.Calculate(req.Items, req.ShippingAddress, req.DeliveryDateIndex, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	preview := models.Cart{Items: req.Items, ShippingAddress: req.ShippingAddress}
	b.ApplyTo(&preview)
	c.JSON(http.StatusOK, preview)
}

func (h *CartHandler) update(c *gin.Context, fn func(*cart.Store) error) {
	updated, err := h.carts.Update(c.Request.Context(), middleware.UserID(c), fn)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CartHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
	case errors.Is(err, pricing.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price format"})
	case errors.Is(err, cart.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": "Cart was modified concurrently, please retry"})
	default:
		logging.From(c).Error("❌ Erreur panier", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart unavailable"})
	}
}

func findLine(s *cart.Store, clientID string) (models.OrderItem, bool) {
	for _, it := range s.Cart().Items {
		if it.ClientID == clientID {
			return it, true
		}
	}
	return models.OrderItem{}, false
}
