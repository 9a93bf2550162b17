package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecom_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Variables Globales ---
var (
	Mongo   *mongo.Database
	Redis   *redis.Client
	Elastic *elasticsearch.Client // nil si ELASTIC_URL absent
	MinIO   *minio.Client         // nil si MINIO_ENDPOINT absent
)

// --- Initialisation ---
func ConnectDatabases(cfg config.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. MongoDB (commandes, produits, utilisateurs)
	db, err := ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ Échec initialisation MongoDB: %v", err)
	}
	Mongo = db
	log.Println("✅ Connecté à MongoDB :", cfg.MongoDB)

	if err := EnsureIndexes(ctx, Mongo); err != nil {
		log.Printf("⚠️ Index MongoDB non créés: %v", err)
	}

	// 2. Redis
	connectRedis(ctx, cfg)

	// 3. Elasticsearch (optionnel, la recherche retombe sur MongoDB)
	if cfg.ElasticURL != "" {
		connectElastic(cfg)
	} else {
		log.Println("⚠️ ELASTIC_URL absent: recherche via MongoDB uniquement")
	}

	// 4. MinIO (optionnel, images servies telles quelles)
	if cfg.MinIOEndpoint != "" {
		connectMinIO(ctx, cfg)
	} else {
		log.Println("⚠️ MINIO_ENDPOINT absent: pas d'URL signées pour les images")
	}

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// MONGODB
// =============================================

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB impossible: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB impossible: %w", err)
	}

	return client.Database(database), nil
}

// Disconnect ferme proprement les connexions
func Disconnect(ctx context.Context) {
	if Mongo != nil {
		if err := Mongo.Client().Disconnect(ctx); err != nil {
			log.Printf("⚠️ Fermeture MongoDB: %v", err)
		}
	}
	if Redis != nil {
		_ = Redis.Close()
	}
	log.Println("🔌 Connexions fermées")
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.Settings) {
	Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.Settings) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Println("⚠️ Erreur création client Elasticsearch:", err)
		return
	}

	res, err := client.Info()
	if err != nil {
		log.Println("⚠️ Elasticsearch injoignable, recherche via MongoDB:", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context, cfg config.Settings) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Println("⚠️ Erreur connexion MinIO:", err)
		return
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		log.Println("⚠️ Erreur vérification bucket MinIO:", err)
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			log.Println("⚠️ Erreur création bucket MinIO:", err)
			return
		}
		log.Println("🪣 Bucket créé :", cfg.MinIOBucket)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", cfg.MinIOEndpoint)
}
