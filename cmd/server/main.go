package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/cart"
	"ecom_back_end/internal/config"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/handlers"
	"ecom_back_end/internal/handlers/order"
	"ecom_back_end/internal/handlers/product"
	"ecom_back_end/internal/handlers/user"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/notify"
	"ecom_back_end/internal/orders"
	"ecom_back_end/internal/payment"
	"ecom_back_end/internal/pricing"
	"ecom_back_end/internal/products"
	"ecom_back_end/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	cfg := config.FromEnv()

	logger := logging.Init("ecom-api", cfg.LogFile)
	if cfg.JWTSecret == "" {
		logger.Error("❌ JWT_SECRET manquant")
		os.Exit(1)
	}

	database.ConnectDatabases(cfg)

	calc := pricing.NewCalculator(cfg.DeliveryDates())
	orderRepo := orders.NewMongoRepository(database.Mongo)
	orderCache := cache.NewOrders(database.Redis)
	carts := cart.NewService(database.Redis, calc, time.Now)

	orderSvc := orders.NewService(orderRepo, calc, orders.WithDefaultPaymentMethod(cfg.DefaultPaymentMethod))

	paymentOpts := []payment.Option{payment.WithEvents(orderCache)}
	if mailer := notify.NewMailer(cfg); mailer.Enabled() {
		paymentOpts = append(paymentOpts, payment.WithReceipts(mailer))
	} else {
		logger.Warn("⚠️ SMTP_HOST absent, reçus désactivés")
	}
	paymentSvc := payment.NewService(orderRepo, newProvider(cfg, logger), payment.NewRedisLocker(database.Redis), paymentOpts...)

	productSvc := products.NewService(
		products.NewMongoRepository(database.Mongo),
		products.NewSearchIndex(database.Elastic),
		products.NewImageResolver(database.MinIO, cfg.MinIOBucket, cfg.ImagePlaceholder),
		database.Redis,
	)

	gin.SetMode(gin.ReleaseMode)
	r := routes.NewRouter(routes.Deps{
		Logger:      logging.New("http"),
		Redis:       database.Redis,
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		Orders:      order.NewHandler(orderSvc, paymentSvc, carts, orderCache, cfg.CORSOrigins),
		Products:    product.NewHandler(productSvc),
		Cart:        user.NewCartHandler(carts, calc, time.Now, cfg.CORSOrigins),
		System: handlers.NewSystemHandler(cfg, map[string]handlers.Check{
			"mongo": func(ctx context.Context) error { return database.Mongo.Client().Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return database.Redis.Ping(ctx).Err() },
		}),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("🚀 Serveur lancé", "port", cfg.Port, "payment_provider", cfg.PaymentProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("❌ Serveur arrêté", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Arrêt en cours")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Arrêt forcé", "error", err)
	}
	database.Disconnect(shutdownCtx)
}

// newProvider choisit la passerelle selon PAYMENT_PROVIDER
func newProvider(cfg config.Settings, logger *slog.Logger) payment.Provider {
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			logger.Error("❌ STRIPE_SECRET_KEY manquant")
			os.Exit(1)
		}
		logger.Info("✅ Stripe initialisé")
		return payment.NewStripeProvider(cfg.StripeSecretKey)
	default:
		if cfg.PayPalClientID == "" || cfg.PayPalClientSecret == "" {
			logger.Warn("⚠️ Identifiants PayPal absents, les paiements échoueront")
		}
		client := cfg.PayPalHTTPClient(context.Background(), &http.Client{Timeout: 15 * time.Second})
		logger.Info("✅ PayPal initialisé", "api", cfg.PayPalAPIURL)
		return payment.NewPayPalProvider(client, cfg.PayPalAPIURL)
	}
}
