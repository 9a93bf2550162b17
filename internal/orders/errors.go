package orders

import (
	"errors"

	"ecom_back_end/internal/pricing"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrNotFound        = errors.New("order not found")
)

// ValidationError première contrainte violée par la commande candidate
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result enveloppe commune des actions (création, paiement)
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Failure(err error) Result {
	return Result{Success: false, Message: FormatError(err)}
}

// FormatError transforme n'importe quelle erreur en message lisible côté client
func FormatError(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrUnauthenticated):
		return "User not authenticated"
	case errors.Is(err, ErrNotFound):
		return "Order not found"
	case errors.Is(err, pricing.ErrInvalidPrice):
		return "Price must have exactly two decimal places (e.g., 49.99)"
	case mongo.IsDuplicateKeyError(err):
		return "Order already exists"
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return "Database unavailable, please try again"
	default:
		return err.Error()
	}
}
