package middleware

import (
	"fmt"
	"net/http"
	"time"

	"ecom_back_end/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	APIMaxRequests     = 100 // par minute pour les endpoints généraux
	CartMaxRequests    = 20
	SearchMaxRequests  = 30
	PaymentMaxRequests = 10

	window = time.Minute
)

// Limit compteur fixe par fenêtre, indexé par la clé renvoyée par keyFn.
// Une clé vide laisse passer la requête.
type Limit struct {
	Prefix  string
	Max     int
	Window  time.Duration
	Message string
	KeyFn   func(c *gin.Context) string
}

func byIP(c *gin.Context) string { return c.ClientIP() }

func byUser(c *gin.Context) string { return UserID(c) }

// RateLimit Redis indisponible = requête acceptée
func RateLimit(rdb redis.Cmdable, l Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := l.KeyFn(c)
		if id == "" || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := l.Prefix + ":" + id

		pipe := rdb.Pipeline()
		incr := pipe.Incr(ctx, key)
		ttlCmd := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			logging.From(c).Warn("⚠️ Rate limit indisponible", "key", key, "error", err)
			c.Next()
			return
		}

		// clé sans expiration : première requête de la fenêtre, ou EXPIRE perdu
		ttl := ttlCmd.Val()
		if ttl < 0 {
			if err := rdb.Expire(ctx, key, l.Window).Err(); err != nil {
				logging.From(c).Warn("⚠️ Expiration rate limit non posée", "key", key, "error", err)
			}
			ttl = l.Window
		}

		count := int(incr.Val())
		if count > l.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       l.Message,
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l.Max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", l.Max-count))
		c.Next()
	}
}

// APIRateLimit limite le nombre de requêtes par IP (général)
func APIRateLimit(rdb redis.Cmdable) gin.HandlerFunc {
	return RateLimit(rdb, Limit{
		Prefix: "api_requests", Max: APIMaxRequests, Window: window,
		Message: "Too many requests, please retry in a minute", KeyFn: byIP,
	})
}

// CartRateLimit limite les écritures panier par utilisateur
func CartRateLimit(rdb redis.Cmdable) gin.HandlerFunc {
	return RateLimit(rdb, Limit{
		Prefix: "cart_writes", Max: CartMaxRequests, Window: window,
		Message: "Too many cart updates, slow down", KeyFn: byUser,
	})
}

// SearchRateLimit limite les recherches par IP
func SearchRateLimit(rdb redis.Cmdable) gin.HandlerFunc {
	return RateLimit(rdb, Limit{
		Prefix: "search_requests", Max: SearchMaxRequests, Window: window,
		Message: "Too many searches, please retry in a minute", KeyFn: byIP,
	})
}

// PaymentRateLimit limite les appels PayPal par utilisateur
func PaymentRateLimit(rdb redis.Cmdable) gin.HandlerFunc {
	return RateLimit(rdb, Limit{
		Prefix: "payment_requests", Max: PaymentMaxRequests, Window: window,
		Message: "Too many payment attempts, please retry in a minute", KeyFn: byUser,
	})
}
