package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"ecom_back_end/internal/models"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé: on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Settings configuration de la boutique, toutes les valeurs ont un défaut
type Settings struct {
	AppName              string
	AppSlogan            string
	AppDescription       string
	PageSize             int
	FreeShippingMinPrice float64
	DefaultPaymentMethod string
	SenderName           string
	SenderEmail          string
	BaseURL              string

	Port        string
	CORSOrigins []string
	LogFile     string

	MongoURI string
	MongoDB  string

	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	ImagePlaceholder string
	JWTSecret        string

	PaymentProvider    string
	PayPalClientID     string
	PayPalClientSecret string
	PayPalAPIURL       string
	StripeSecretKey    string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// PublicSettings ce qui peut être exposé au front via /api/config
type PublicSettings struct {
	AppName              string                `json:"name"`
	AppSlogan            string                `json:"slogan"`
	AppDescription       string                `json:"description"`
	PageSize             int                   `json:"pageSize"`
	FreeShippingMinPrice float64               `json:"freeShippingMinPrice"`
	DefaultPaymentMethod string                `json:"defaultPaymentMethod"`
	AvailablePayments    []string              `json:"availablePaymentMethods"`
	DeliveryDates        []models.DeliveryDate `json:"availableDeliveryDates"`
}

var AvailablePaymentMethods = []string{"PayPal", "Stripe", "Cash On Delivery"}

func FromEnv() Settings {
	appName := getEnv("APP_NAME", "Ecom")
	return Settings{
		AppName:              appName,
		AppSlogan:            getEnv("APP_SLOGAN", "Spend less, enjoy more."),
		AppDescription:       getEnv("APP_DESCRIPTION", "An Ecom store built with Go, MongoDB and Redis"),
		PageSize:             getInt("PAGE_SIZE", 9),
		FreeShippingMinPrice: getFloat("FREE_SHIPPING_MIN_PRICE", 35),
		DefaultPaymentMethod: getEnv("DEFAULT_PAYMENT_METHOD", "PayPal"),
		SenderName:           getEnv("SENDER_NAME", "support"),
		SenderEmail:          getEnv("SENDER_EMAIL", "onboarding@resend.dev"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogFile:     getEnv("LOG_FILE", "./logs/app.log"),

		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGODB_DB", "ecom"),

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "product-images"),
		MinIOUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		ImagePlaceholder: getEnv("IMAGE_PLACEHOLDER", "/images/placeholder.jpg"),
		JWTSecret:        os.Getenv("JWT_SECRET"),

		PaymentProvider:    strings.ToLower(getEnv("PAYMENT_PROVIDER", "paypal")),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalAPIURL:       getEnv("PAYPAL_API_URL", "https://api-m.sandbox.paypal.com"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
}

// DeliveryDates table de livraison : le seuil de gratuité vient de FREE_SHIPPING_MIN_PRICE,
// la dernière option n'a jamais de livraison gratuite
func (s Settings) DeliveryDates() []models.DeliveryDate {
	return []models.DeliveryDate{
		{Name: "Next 3 Days", DaysToDeliver: 3, ShippingPrice: 6.90, FreeShippingMinPrice: s.FreeShippingMinPrice},
		{Name: "Next 5 Days", DaysToDeliver: 5, ShippingPrice: 4.90, FreeShippingMinPrice: s.FreeShippingMinPrice},
		{Name: "Next 7 Days", DaysToDeliver: 7, ShippingPrice: 2.90, FreeShippingMinPrice: 0},
	}
}

func (s Settings) Public() PublicSettings {
	return PublicSettings{
		AppName:              s.AppName,
		AppSlogan:            s.AppSlogan,
		AppDescription:       s.AppDescription,
		PageSize:             s.PageSize,
		FreeShippingMinPrice: s.FreeShippingMinPrice,
		DefaultPaymentMethod: s.DefaultPaymentMethod,
		AvailablePayments:    AvailablePaymentMethods,
		DeliveryDates:        s.DeliveryDates(),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
