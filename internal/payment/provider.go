package payment

import (
	"context"
	"errors"
	"fmt"

	"ecom_back_end/internal/orders"
)

const StatusCompleted = "COMPLETED"

var (
	ErrPaymentIntegrity = errors.New("error in paypal payment")
	ErrProvider         = errors.New("payment provider error")
	ErrAlreadyPaid      = errors.New("order is already paid")
)

// CreatedOrder commande créée chez le prestataire
type CreatedOrder struct {
	ID string
}

// Capture résultat d'une capture chez le prestataire
type Capture struct {
	ID         string
	Status     string
	PayerEmail string
	Amount     string
}

// Provider passerelle de paiement vue comme une boîte noire
type Provider interface {
	Name() string
	CreateOrder(ctx context.Context, amount string) (CreatedOrder, error)
	CapturePayment(ctx context.Context, providerOrderID string) (Capture, error)
}

func providerError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProvider, op, err)
}

// FormatError complète orders.FormatError avec les erreurs de paiement
func FormatError(err error) string {
	switch {
	case errors.Is(err, ErrPaymentIntegrity):
		return "Error in paypal payment"
	case errors.Is(err, ErrAlreadyPaid):
		return "Order is already paid"
	case errors.Is(err, ErrLockTimeout):
		return "Payment is already being processed, please retry"
	case errors.Is(err, ErrProvider):
		return err.Error()
	default:
		return orders.FormatError(err)
	}
}

func failure(err error) orders.Result {
	return orders.Result{Success: false, Message: FormatError(err)}
}
