package main

import (
	"context"
	"os"
	"time"

	"ecom_back_end/internal/config"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/products"
)

// Réindexe tous les produits publiés MongoDB → Elasticsearch
func main() {
	config.Load()
	cfg := config.FromEnv()
	logger := logging.Init("ecom-reindex", "")

	if cfg.ElasticURL == "" {
		logger.Error("❌ ELASTIC_URL manquant")
		os.Exit(1)
	}
	database.ConnectDatabases(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	defer database.Disconnect(context.Background())

	svc := products.NewService(
		products.NewMongoRepository(database.Mongo),
		products.NewSearchIndex(database.Elastic),
		nil,
		database.Redis,
	)
	n, err := svc.ReindexAll(ctx)
	if err != nil {
		logger.Error("❌ Réindexation incomplète", "indexed", n, "error", err)
		os.Exit(1)
	}
	logger.Info("✅ Réindexation terminée", "indexed", n)
}
