package pricing

import (
	"errors"
	"fmt"
	"time"

	"ecom_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice = errors.New("prix d'article invalide")

	taxRate = decimal.RequireFromString("0.15")
)

// DefaultDeliveryDates table utilisée quand la configuration n'en fournit pas
var DefaultDeliveryDates = []models.DeliveryDate{
	{Name: "Next 3 Days", DaysToDeliver: 3, ShippingPrice: 6.90, FreeShippingMinPrice: 35},
	{Name: "Next 5 Days", DaysToDeliver: 5, ShippingPrice: 4.90, FreeShippingMinPrice: 35},
	{Name: "Next 7 Days", DaysToDeliver: 7, ShippingPrice: 2.90, FreeShippingMinPrice: 0},
}

// Breakdown résultat du calcul. ShippingPrice est nil tant qu'aucune adresse
// (ou aucune option de livraison valide) n'est connue.
type Breakdown struct {
	ItemsPrice           decimal.Decimal
	ShippingPrice        *decimal.Decimal
	TaxPrice             decimal.Decimal
	TotalPrice           decimal.Decimal
	ExpectedDeliveryDate time.Time
	DeliveryDateIndex    int
}

// Calculator calcule les prix d'un panier à partir d'une table de livraison
type Calculator struct {
	DeliveryDates []models.DeliveryDate
}

func NewCalculator(dates []models.DeliveryDate) Calculator {
	if len(dates) == 0 {
		dates = DefaultDeliveryDates
	}
	return Calculator{DeliveryDates: dates}
}

// Calculate avec la table par défaut
func Calculate(items []models.OrderItem, addr *models.ShippingAddress, deliveryDateIndex *int, now time.Time) (Breakdown, error) {
	return NewCalculator(nil).Calculate(items, addr, deliveryDateIndex, now)
}

// Calculate est pure : now est la seule entrée temporelle.
func (c Calculator) Calculate(items []models.OrderItem, addr *models.ShippingAddress, deliveryDateIndex *int, now time.Time) (Breakdown, error) {
	itemsPrice := decimal.Zero
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return Breakdown{}, fmt.Errorf("%w: %q (%s)", ErrInvalidPrice, item.Price, item.Name)
		}
		itemsPrice = itemsPrice.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	itemsPrice = Round2(itemsPrice)

	// Par défaut la dernière option : la moins chère, la plus lente
	idx := len(c.DeliveryDates) - 1
	if deliveryDateIndex != nil {
		idx = *deliveryDateIndex
	}

	b := Breakdown{
		ItemsPrice:           itemsPrice,
		DeliveryDateIndex:    idx,
		ExpectedDeliveryDate: now,
	}

	var option *models.DeliveryDate
	if idx >= 0 && idx < len(c.DeliveryDates) {
		option = &c.DeliveryDates[idx]
		b.ExpectedDeliveryDate = now.AddDate(0, 0, option.DaysToDeliver)
	}

	if addr != nil && option != nil {
		shipping := decimal.NewFromFloat(option.ShippingPrice)
		threshold := decimal.NewFromFloat(option.FreeShippingMinPrice)
		if threshold.IsPositive() && itemsPrice.GreaterThanOrEqual(threshold) {
			shipping = decimal.Zero
		}
		shipping = Round2(shipping)
		b.ShippingPrice = &shipping
	}

	b.TaxPrice = Round2(itemsPrice.Mul(taxRate))

	total := itemsPrice.Add(b.TaxPrice)
	if b.ShippingPrice != nil {
		total = total.Add(*b.ShippingPrice)
	}
	b.TotalPrice = Round2(total)

	return b, nil
}

// Round2 arrondi au centime, moitié vers le haut pour les montants positifs
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatPrice rend toujours deux décimales ("49.90", jamais "49.9")
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatOptional retourne "0.00" si le montant est absent
func FormatOptional(d *decimal.Decimal) string {
	if d == nil {
		return "0.00"
	}
	return FormatPrice(*d)
}

// ApplyTo recopie le calcul dans un panier client
func (b Breakdown) ApplyTo(cart *models.Cart) {
	cart.ItemsPrice = b.ItemsPrice.InexactFloat64()
	tax := b.TaxPrice.InexactFloat64()
	cart.TaxPrice = &tax
	if b.ShippingPrice != nil {
		shipping := b.ShippingPrice.InexactFloat64()
		cart.ShippingPrice = &shipping
	} else {
		cart.ShippingPrice = nil
	}
	cart.TotalPrice = b.TotalPrice.InexactFloat64()
	idx := b.DeliveryDateIndex
	cart.DeliveryDateIndex = &idx
	expected := b.ExpectedDeliveryDate
	cart.ExpectedDeliveryDate = &expected
}
