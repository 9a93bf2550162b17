package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByUser(ctx context.Context, userID string, limit int64) ([]models.Order, error)
	// SetPaymentResult n'agit que sur une commande non payée
	SetPaymentResult(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) error
	// MarkPaid transition conditionnelle : false si la commande était déjà payée
	// ou si paymentResult.id ne correspond plus à providerOrderID
	MarkPaid(ctx context.Context, id primitive.ObjectID, providerOrderID string, result models.PaymentResult, paidAt time.Time) (bool, error)
	UserEmail(ctx context.Context, userID string) (string, error)
}

type mongoRepository struct {
	orders *mongo.Collection
	users  *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		orders: db.Collection(database.OrdersCollection),
		users:  db.Collection(database.UsersCollection),
	}
}

// ParseID un identifiant mal formé est traité comme introuvable
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (m *mongoRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if _, err := m.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insertion commande: %w", err)
	}
	return nil
}

func (m *mongoRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := m.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture commande: %w", err)
	}
	return &order, nil
}

func (m *mongoRepository) FindByUser(ctx context.Context, userID string, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := m.orders.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("lecture commandes: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("décodage commandes: %w", err)
	}
	return orders, nil
}

func (m *mongoRepository) SetPaymentResult(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) error {
	res, err := m.orders.UpdateOne(ctx,
		bson.M{"_id": id, "isPaid": false},
		bson.M{"$set": bson.M{"paymentResult": result, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("mise à jour paiement: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, providerOrderID string, result models.PaymentResult, paidAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":              id,
		"isPaid":           false,
		"paymentResult.id": providerOrderID,
	}
	update := bson.M{"$set": bson.M{
		"isPaid":        true,
		"paidAt":        paidAt,
		"paymentResult": result,
		"updatedAt":     paidAt,
	}}

	res, err := m.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("validation paiement: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (m *mongoRepository) UserEmail(ctx context.Context, userID string) (string, error) {
	filter := bson.M{"_id": userID}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		filter = bson.M{"_id": bson.M{"$in": bson.A{userID, oid}}}
	}

	var user models.User
	err := m.users.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"email": 1, "name": 1})).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("lecture utilisateur: %w", err)
	}
	return user.Email, nil
}
