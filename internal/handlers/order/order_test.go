package order

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/middleware"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/orders"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestCache(t *testing.T) (*cache.Orders, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewOrders(rdb), rdb
}

func newRouter(h *Handler, userID string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	r.POST("/api/orders", h.CreateOrder)
	r.GET("/api/orders/mine", h.ListMine)
	r.GET("/api/orders/:id", h.GetOrderStatus)
	r.POST("/api/orders/:id/paypal", h.CreatePayPalOrder)
	r.POST("/api/orders/:id/paypal/approve", h.ApprovePayPalOrder)
	r.GET("/api/orders/:id/ws", h.PaidSocket)
	return r
}

func TestCreateOrderClearsCartOnSuccess(t *testing.T) {
	svc := newFakeOrders()
	svc.created = orders.Result{Success: true, Message: "Order placed successfully", Data: map[string]string{"orderId": "abc"}}
	carts := &fakeCarts{}
	r := newRouter(NewHandler(svc, &fakePayments{}, carts, nil, nil), "u1")

	body := `{"items":[{"product":"p1","quantity":2,"price":"10.00"}],"itemsPrice":999}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Order placed successfully","data":{"orderId":"abc"}}`, w.Body.String())
	assert.Equal(t, "u1", svc.lastUser)
	require.Len(t, svc.lastCart.Items, 1)
	assert.Equal(t, 2, svc.lastCart.Items[0].Quantity)
	assert.Equal(t, []string{"u1"}, carts.cleared)
}

func TestCreateOrderFailureKeepsCart(t *testing.T) {
	svc := newFakeOrders()
	svc.created = orders.Result{Success: false, Message: "User not authenticated"}
	carts := &fakeCarts{}
	r := newRouter(NewHandler(svc, &fakePayments{}, carts, nil, nil), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`)))

	assert.JSONEq(t, `{"success":false,"message":"User not authenticated"}`, w.Body.String())
	assert.Empty(t, carts.cleared)
}

func TestCreateOrderBadJSON(t *testing.T) {
	r := newRouter(NewHandler(newFakeOrders(), &fakePayments{}, nil, nil, nil), "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGetOrderStatus(t *testing.T) {
	svc := newFakeOrders()
	order := &models.Order{ID: primitive.NewObjectID(), User: "u1"}
	svc.put(order)
	orderCache, _ := setupTestCache(t)
	r := newRouter(NewHandler(svc, &fakePayments{}, nil, orderCache, nil), "")
	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil))
		return w
	}

	w := get()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isPaid":false}`, w.Body.String())

	// non payée : relue à chaque fois
	get()
	assert.EqualValues(t, 2, svc.gets.Load())

	svc.setPaid(order.ID.Hex())
	assert.JSONEq(t, `{"isPaid":true}`, get().Body.String())

	// payée : servie par le cache
	assert.JSONEq(t, `{"isPaid":true}`, get().Body.String())
	assert.EqualValues(t, 3, svc.gets.Load())
}

func TestGetOrderStatusPaidDuringRead(t *testing.T) {
	svc := newFakeOrders()
	order := &models.Order{ID: primitive.NewObjectID(), User: "u1"}
	svc.put(order)
	orderCache, _ := setupTestCache(t)
	r := newRouter(NewHandler(svc, &fakePayments{}, nil, orderCache, nil), "")

	// la capture aboutit entre la lecture MongoDB et la mise en cache
	svc.afterGet = func(id string) {
		svc.afterGet = nil
		svc.setPaid(id)
		orderCache.Invalidate(context.Background(), id)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil))
	assert.JSONEq(t, `{"isPaid":false}`, w.Body.String())

	_, err := orderCache.Get(context.Background(), order.ID.Hex())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil))
	assert.JSONEq(t, `{"isPaid":true}`, w.Body.String())
}

func TestGetOrderStatusNotFound(t *testing.T) {
	r := newRouter(NewHandler(newFakeOrders(), &fakePayments{}, nil, nil, nil), "")

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
	}
}

func TestGetOrderStatusStoreError(t *testing.T) {
	svc := newFakeOrders()
	svc.err = errors.New("connection refused")
	r := newRouter(NewHandler(svc, &fakePayments{}, nil, nil, nil), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+primitive.NewObjectID().Hex(), nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListMine(t *testing.T) {
	svc := newFakeOrders()
	svc.put(&models.Order{ID: primitive.NewObjectID(), User: "u1"})
	svc.put(&models.Order{ID: primitive.NewObjectID(), User: "u2"})
	r := newRouter(NewHandler(svc, &fakePayments{}, nil, nil, nil), "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"user":"u1"`))
	assert.NotContains(t, w.Body.String(), "u2")
}

func TestPayPalEndpoints(t *testing.T) {
	pay := &fakePayments{result: orders.Result{Success: true, Message: "Your order has been successfully paid by PayPal"}}
	r := newRouter(NewHandler(newFakeOrders(), pay, nil, nil, nil), "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders/o1/paypal/approve", bytes.NewBufferString(`{"orderID":"PP-1"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "o1", pay.orderID)
	assert.Equal(t, "PP-1", pay.providerID)
	assert.Contains(t, w.Body.String(), "successfully paid")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders/o1/paypal/approve", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	pay.result = orders.Result{Success: true, Message: "PayPal order created successfully", Data: "PP-2"}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders/o2/paypal", nil))
	assert.JSONEq(t, `{"success":true,"message":"PayPal order created successfully","data":"PP-2"}`, w.Body.String())
	assert.Equal(t, "o2", pay.orderID)
}

func dialSocket(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/orders/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPaidSocketPushesPaidEvent(t *testing.T) {
	svc := newFakeOrders()
	order := &models.Order{ID: primitive.NewObjectID()}
	svc.put(order)
	orderCache, rdb := setupTestCache(t)
	srv := httptest.NewServer(newRouter(NewHandler(svc, &fakePayments{}, nil, orderCache, nil), ""))
	defer srv.Close()

	conn := dialSocket(t, srv, order.ID.Hex())

	// attendre l'abonnement côté serveur
	require.Eventually(t, func() bool {
		n, _ := rdb.PubSubNumSub(t.Context(), cache.OrderChannel(order.ID.Hex())).Result()
		return n[cache.OrderChannel(order.ID.Hex())] == 1
	}, 2*time.Second, 10*time.Millisecond)

	svc.setPaid(order.ID.Hex())
	orderCache.PublishPaid(t.Context(), order.ID.Hex())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg paidMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, paidMessage{Type: "paid", IsPaid: true}, msg)
}

func TestPaidSocketAlreadyPaid(t *testing.T) {
	svc := newFakeOrders()
	order := &models.Order{ID: primitive.NewObjectID(), IsPaid: true}
	svc.put(order)
	orderCache, _ := setupTestCache(t)
	srv := httptest.NewServer(newRouter(NewHandler(svc, &fakePayments{}, nil, orderCache, nil), ""))
	defer srv.Close()

	conn := dialSocket(t, srv, order.ID.Hex())
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg paidMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.IsPaid)
}

func TestPaidSocketUnknownOrder(t *testing.T) {
	orderCache, _ := setupTestCache(t)
	r := newRouter(NewHandler(newFakeOrders(), &fakePayments{}, nil, orderCache, nil), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+primitive.NewObjectID().Hex()+"/ws", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
