package models

// DeliveryDate option de livraison : délai, prix fixe et seuil de gratuité (0 = pas de gratuité)
type DeliveryDate struct {
	Name                 string  `json:"name"`
	DaysToDeliver        int     `json:"daysToDeliver"`
	ShippingPrice        float64 `json:"shippingPrice"`
	FreeShippingMinPrice float64 `json:"freeShippingMinPrice"`
}
