package models

// ShippingAddress adresse de livraison saisie au checkout, tous les champs sont obligatoires
type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName" validate:"required"`
	Street     string `json:"street" bson:"street" validate:"required"`
	City       string `json:"city" bson:"city" validate:"required"`
	Province   string `json:"province" bson:"province" validate:"required"`
	PostalCode string `json:"postalCode" bson:"postalCode" validate:"required"`
	Country    string `json:"country" bson:"country" validate:"required"`
	Phone      string `json:"phone" bson:"phone" validate:"required"`
}
