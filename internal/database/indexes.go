package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OrdersCollection   = "orders"
	ProductsCollection = "products"
	UsersCollection    = "users"
)

// EnsureIndexes crée les index utilisés par les requêtes fréquentes
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	orders := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "paymentResult.id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := db.Collection(OrdersCollection).Indexes().CreateMany(ctx, orders); err != nil {
		return fmt.Errorf("index orders: %w", err)
	}

	products := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "subCategory", Value: 1}, {Key: "numSales", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "numSales", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, products); err != nil {
		return fmt.Errorf("index products: %w", err)
	}

	return nil
}
