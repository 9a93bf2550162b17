package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Slug         string             `json:"slug" bson:"slug"`
	Category     string             `json:"category" bson:"category"`
	SubCategory  string             `json:"subCategory" bson:"subCategory"`
	Images       []string           `json:"images" bson:"images"`
	Brand        string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	IsPublished  bool               `json:"isPublished" bson:"isPublished"`
	Price        string             `json:"price,omitempty" bson:"price,omitempty"`
	ListPrice    string             `json:"listPrice,omitempty" bson:"listPrice,omitempty"`
	CountInStock int                `json:"countInStock" bson:"countInStock"`
	Tags         []string           `json:"tags" bson:"tags"`
	Sizes        []string           `json:"sizes" bson:"sizes"`
	Colors       []string           `json:"colors" bson:"colors"`
	AvgRating    float64            `json:"avgRating" bson:"avgRating"`
	NumReviews   int                `json:"numReviews" bson:"numReviews"`
	NumSales     int                `json:"numSales" bson:"numSales"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductCard résumé d'un produit pour les cartes de la page d'accueil
type ProductCard struct {
	Name        string   `json:"name"`
	Href        string   `json:"href"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Price       string   `json:"price,omitempty"`
	ListPrice   string   `json:"listPrice,omitempty"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Description string   `json:"description"`
}
