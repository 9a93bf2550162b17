package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("product not found")

// CategoryCount résultat de l'agrégation par catégorie puis sous-catégorie
type CategoryCount struct {
	Category      string          `bson:"_id"`
	Subcategories []SubcatCounter `bson:"subcategories"`
	TotalCount    int             `bson:"totalCount"`
}

type SubcatCounter struct {
	Name  string `bson:"name"`
	Count int    `bson:"count"`
}

type Repository interface {
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	// TopSelling produits publiés dont field ∈ values, hors exclude, triés par ventes
	TopSelling(ctx context.Context, field string, values []string, exclude []primitive.ObjectID, limit int64) ([]models.Product, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	SampleImages(ctx context.Context, category string, limit int64) ([]models.Product, error)
	DistinctSubcategories(ctx context.Context, category string) ([]string, error)
	ByTag(ctx context.Context, tag string, limit int64) ([]models.Product, error)
	BySlug(ctx context.Context, slug string) (*models.Product, error)
	TextSearch(ctx context.Context, q string, limit int64) ([]models.Product, error)
	Published(ctx context.Context) ([]models.Product, error)
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection(database.ProductsCollection)}
}

func (m *mongoRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]models.Product, error) {
	cursor, err := m.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("décodage produits: %w", err)
	}
	return products, nil
}

func (m *mongoRepository) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return m.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (m *mongoRepository) TopSelling(ctx context.Context, field string, values []string, exclude []primitive.ObjectID, limit int64) ([]models.Product, error) {
	filter := bson.M{
		field:         bson.M{"$in": values},
		"_id":         bson.M{"$nin": exclude},
		"isPublished": true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "numSales", Value: -1}}).SetLimit(limit)
	return m.find(ctx, filter, opts)
}

func (m *mongoRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPublished": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"category": "$category", "subCategory": "$subCategory"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$_id.category",
			"subcategories": bson.M{"$push": bson.M{"name": "$_id.subCategory", "count": "$count"}},
			"totalCount":    bson.M{"$sum": "$count"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("agrégation catégories: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("décodage catégories: %w", err)
	}
	return counts, nil
}

func (m *mongoRepository) SampleImages(ctx context.Context, category string, limit int64) ([]models.Product, error) {
	filter := bson.M{
		"category":    category,
		"isPublished": true,
		"images":      bson.M{"$exists": true, "$ne": bson.A{}},
	}
	opts := options.Find().SetProjection(bson.M{"images": 1, "subCategory": 1}).SetLimit(limit)
	return m.find(ctx, filter, opts)
}

func (m *mongoRepository) DistinctSubcategories(ctx context.Context, category string) ([]string, error) {
	values, err := m.collection.Distinct(ctx, "subCategory", bson.M{"category": category, "isPublished": true})
	if err != nil {
		return nil, fmt.Errorf("sous-catégories: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mongoRepository) ByTag(ctx context.Context, tag string, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return m.find(ctx, bson.M{"tags": bson.M{"$in": bson.A{tag}}, "isPublished": true}, opts)
}

func (m *mongoRepository) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := m.collection.FindOne(ctx, bson.M{"slug": slug, "isPublished": true}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture produit: %w", err)
	}
	return &p, nil
}

// TextSearch repli quand Elasticsearch n'est pas disponible
func (m *mongoRepository) TextSearch(ctx context.Context, q string, limit int64) ([]models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{
		"isPublished": true,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "numSales", Value: -1}}).SetLimit(limit)
	return m.find(ctx, filter, opts)
}

func (m *mongoRepository) Published(ctx context.Context) ([]models.Product, error) {
	return m.find(ctx, bson.M{"isPublished": true})
}
