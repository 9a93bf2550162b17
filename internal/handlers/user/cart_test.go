package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecom_back_end/internal/cart"
	"ecom_back_end/internal/middleware"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func init() {
	gin.SetMode(gin.TestMode)
}

func setupCart(t *testing.T) (*gin.Engine, *cart.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calc := pricing.NewCalculator(nil)
	svc := cart.NewService(rdb, calc, clock)
	h := NewCartHandler(svc, calc, clock, nil)

	r := gin.New()
	r.POST("/api/cart/price", h.Price)
	auth := r.Group("/api/cart", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "u1")
		c.Next()
	})
	auth.GET("", h.GetCart)
	auth.DELETE("", h.ClearCart)
	auth.POST("/items", h.AddItem)
	auth.PUT("/items/:clientId", h.UpdateItem)
	auth.DELETE("/items/:clientId", h.RemoveItem)
	auth.PUT("/shipping-address", h.SetShippingAddress)
	auth.PUT("/payment-method", h.SetPaymentMethod)
	auth.PUT("/delivery-date", h.SetDeliveryDate)
	auth.GET("/ws", h.CartWebSocket)
	return r, svc
}

func doJSON(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func lock(color string) models.OrderItem {
	return models.OrderItem{
		Product: "p1", Name: "Rim Lock", Slug: "rim-lock", Category: "Door Locks",
		SubCategory: "Rim Locks", Image: "/images/rim.jpg", Price: "12.50", Color: color, CountInStock: 10,
	}
}

var address = models.ShippingAddress{
	FullName: "Jane Doe", Street: "1 Main St", City: "Toronto", Province: "ON",
	PostalCode: "M5V", Country: "Canada", Phone: "555-0100",
}

func TestCartLifecycle(t *testing.T) {
	r, _ := setupCart(t)

	w := doJSON(r, http.MethodPost, "/api/cart/items", gin.H{"item": lock("Black"), "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var added struct {
		ClientID string      `json:"clientId"`
		Cart     models.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.NotEmpty(t, added.ClientID)
	assert.Equal(t, 25.0, added.Cart.ItemsPrice)

	// même variante : fusion
	w = doJSON(r, http.MethodPost, "/api/cart/items", gin.H{"item": lock("Black"), "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Cart
	w = doJSON(r, http.MethodGet, "/api/cart", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Nil(t, got.ShippingPrice)

	w = doJSON(r, http.MethodPut, "/api/cart/shipping-address", address)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.ShippingPrice)
	assert.Equal(t, 2.90, *got.ShippingPrice)

	w = doJSON(r, http.MethodPut, "/api/cart/delivery-date", gin.H{"deliveryDateIndex": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0.0, *got.ShippingPrice)
	assert.Equal(t, 0, *got.DeliveryDateIndex)

	w = doJSON(r, http.MethodPut, "/api/cart/items/"+added.ClientID, gin.H{"quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 12.5, got.ItemsPrice)
	// sous le seuil : tarif de l'option choisie
	assert.Equal(t, 6.90, *got.ShippingPrice)

	w = doJSON(r, http.MethodPut, "/api/cart/payment-method", gin.H{"paymentMethod": "Stripe"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Stripe", got.PaymentMethod)

	w = doJSON(r, http.MethodDelete, "/api/cart/items/"+added.ClientID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Items)

	w = doJSON(r, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartErrors(t *testing.T) {
	r, _ := setupCart(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{"zero quantity", http.MethodPost, "/api/cart/items", gin.H{"item": lock(""), "quantity": 0}, http.StatusBadRequest},
		{"missing product", http.MethodPost, "/api/cart/items", gin.H{"item": models.OrderItem{Price: "1.00"}, "quantity": 1}, http.StatusBadRequest},
		{"bad price", http.MethodPost, "/api/cart/items", gin.H{"item": models.OrderItem{Product: "p", Price: "abc"}, "quantity": 1}, http.StatusBadRequest},
		{"unknown line", http.MethodPut, "/api/cart/items/nope", gin.H{"quantity": 2}, http.StatusNotFound},
		{"remove unknown", http.MethodDelete, "/api/cart/items/nope", nil, http.StatusNotFound},
		{"delivery out of range", http.MethodPut, "/api/cart/delivery-date", gin.H{"deliveryDateIndex": 9}, http.StatusBadRequest},
		{"delivery missing", http.MethodPut, "/api/cart/delivery-date", gin.H{}, http.StatusBadRequest},
		{"payment missing", http.MethodPut, "/api/cart/payment-method", gin.H{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPricePreview(t *testing.T) {
	r, _ := setupCart(t)
	item := lock("")
	item.Quantity = 3

	w := doJSON(r, http.MethodPost, "/api/cart/price", gin.H{
		"items":           []models.OrderItem{item},
		"shippingAddress": address,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 37.5, got.ItemsPrice)
	assert.Equal(t, 2.90, *got.ShippingPrice)
	assert.Equal(t, 5.63, *got.TaxPrice)
	assert.Equal(t, 46.03, got.TotalPrice)
	assert.Equal(t, 2, *got.DeliveryDateIndex)
	assert.True(t, got.ExpectedDeliveryDate.Equal(fixedNow.AddDate(0, 0, 7)))
}

func TestCartWebSocketPushesUpdates(t *testing.T) {
	r, svc := setupCart(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/cart/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg struct {
		Type string      `json:"type"`
		Cart models.Cart `json:"cart"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "connected", msg.Type)

	_, err = svc.Update(context.Background(), "u1", func(s *cart.Store) error {
		_, err := s.AddItem(lock("Black"), 1)
		return err
	})
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "cart_updated", msg.Type)
	assert.Len(t, msg.Cart.Items, 1)
}
