package models

import "time"

// OrderItem ligne de panier, dénormalisée au moment de l'ajout
type OrderItem struct {
	ClientID     string `json:"clientId" bson:"clientId" validate:"required"`
	Product      string `json:"product" bson:"product" validate:"required"`
	Name         string `json:"name" bson:"name" validate:"required"`
	Slug         string `json:"slug" bson:"slug" validate:"required"`
	Category     string `json:"category" bson:"category" validate:"required"`
	SubCategory  string `json:"subCategory" bson:"subCategory" validate:"required"`
	Quantity     int    `json:"quantity" bson:"quantity" validate:"min=1"`
	Image        string `json:"image" bson:"image" validate:"required"`
	Price        string `json:"price" bson:"price" validate:"price2"`
	Size         string `json:"size,omitempty" bson:"size,omitempty"`
	Color        string `json:"color,omitempty" bson:"color,omitempty"`
	CountInStock int    `json:"countInStock" bson:"countInStock" validate:"min=0"`
}

// SameVariant compare le triplet (produit, couleur, taille)
func (i OrderItem) SameVariant(other OrderItem) bool {
	return i.Product == other.Product && i.Color == other.Color && i.Size == other.Size
}

// Cart panier côté client : les montants sont provisoires tant que le serveur ne les a pas recalculés
type Cart struct {
	Items                []OrderItem      `json:"items"`
	ItemsPrice           float64          `json:"itemsPrice"`
	TaxPrice             *float64         `json:"taxPrice,omitempty"`
	ShippingPrice        *float64         `json:"shippingPrice,omitempty"`
	TotalPrice           float64          `json:"totalPrice"`
	PaymentMethod        string           `json:"paymentMethod,omitempty"`
	ShippingAddress      *ShippingAddress `json:"shippingAddress,omitempty"`
	DeliveryDateIndex    *int             `json:"deliveryDateIndex,omitempty"`
	ExpectedDeliveryDate *time.Time       `json:"expectedDeliveryDate,omitempty"`
}
