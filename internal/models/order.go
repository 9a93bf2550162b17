package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PaymentStatusCompleted = "COMPLETED"

type PaymentResult struct {
	ID           string `json:"id" bson:"id"`
	Status       string `json:"status" bson:"status"`
	EmailAddress string `json:"email_address" bson:"email_address"`
	PricePaid    string `json:"pricePaid" bson:"pricePaid"`
}

// Order commande persistée. Les prix sont figés à la création.
type Order struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User                 string             `json:"user" bson:"user" validate:"required"`
	Items                []OrderItem        `json:"items" bson:"items" validate:"min=1,dive"`
	ShippingAddress      ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod        string             `json:"paymentMethod" bson:"paymentMethod" validate:"required"`
	PaymentResult        *PaymentResult     `json:"paymentResult,omitempty" bson:"paymentResult,omitempty"`
	ItemsPrice           string             `json:"itemsPrice" bson:"itemsPrice" validate:"price2"`
	ShippingPrice        string             `json:"shippingPrice" bson:"shippingPrice" validate:"price2"`
	TaxPrice             string             `json:"taxPrice" bson:"taxPrice" validate:"price2"`
	TotalPrice           string             `json:"totalPrice" bson:"totalPrice" validate:"price2"`
	ExpectedDeliveryDate time.Time          `json:"expectedDeliveryDate" bson:"expectedDeliveryDate" validate:"future"`
	IsPaid               bool               `json:"isPaid" bson:"isPaid"`
	PaidAt               *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	IsDelivered          bool               `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt          *time.Time         `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}
