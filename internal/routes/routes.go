package routes

import (
	"log/slog"
	"net/http"
	"time"

	"ecom_back_end/internal/handlers"
	"ecom_back_end/internal/handlers/order"
	"ecom_back_end/internal/handlers/product"
	"ecom_back_end/internal/handlers/user"
	"ecom_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Logger      *slog.Logger
	Redis       redis.Cmdable
	JWTSecret   []byte
	CORSOrigins []string

	Orders   *order.Handler
	Products *product.Handler
	Cart     *user.CartHandler
	System   *handlers.SystemHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.RequestLogger(d.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", d.System.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	auth := middleware.AuthRequired(d.JWTSecret)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret)

	api := r.Group("/api", middleware.APIRateLimit(d.Redis))
	api.GET("/config", d.System.Config)

	// Produits
	api.GET("/product/browsing-history", d.Products.BrowsingHistory)
	products := api.Group("/products")
	{
		products.GET("/categories", d.Products.Categories)
		products.GET("/categories/:category/subcategories", d.Products.Subcategories)
		products.GET("/tag/:tag", d.Products.ByTag)
		products.GET("/search", middleware.SearchRateLimit(d.Redis), d.Products.Search)
		products.GET("/:slug", d.Products.BySlug)
	}

	// Commandes
	orders := api.Group("/orders")
	{
		orders.POST("", optionalAuth, d.Orders.CreateOrder)
		orders.GET("/mine", auth, d.Orders.ListMine)
		orders.GET("/:id", d.Orders.GetOrderStatus)
		orders.GET("/:id/ws", d.Orders.PaidSocket)
		orders.POST("/:id/paypal", auth, middleware.PaymentRateLimit(d.Redis), d.Orders.CreatePayPalOrder)
		orders.POST("/:id/paypal/approve", auth, middleware.PaymentRateLimit(d.Redis), d.Orders.ApprovePayPalOrder)
	}

	// Panier
	api.POST("/cart/price", d.Cart.Price)
	cart := api.Group("/cart", auth)
	{
		cart.GET("", d.Cart.GetCart)
		cart.GET("/ws", d.Cart.CartWebSocket)
		cart.DELETE("", d.Cart.ClearCart)

		writes := cart.Group("", middleware.CartRateLimit(d.Redis))
		writes.POST("/items", d.Cart.AddItem)
		writes.PUT("/items/:clientId", d.Cart.UpdateItem)
		writes.DELETE("/items/:clientId", d.Cart.RemoveItem)
		writes.PUT("/shipping-address", d.Cart.SetShippingAddress)
		writes.PUT("/payment-method", d.Cart.SetPaymentMethod)
		writes.PUT("/delivery-date", d.Cart.SetDeliveryDate)
	}
}
