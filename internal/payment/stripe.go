package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripeProvider PaymentIntent en capture manuelle : CreateOrder autorise,
// CapturePayment encaisse.
type StripeProvider struct {
	currency string
}

func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{currency: "usd"}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateOrder(ctx context.Context, amount string) (CreatedOrder, error) {
	cents, err := toCents(amount)
	if err != nil {
		return CreatedOrder{}, providerError("montant Stripe", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents),
		Currency:      stripe.String(p.currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return CreatedOrder{}, providerError("création PaymentIntent", err)
	}
	return CreatedOrder{ID: intent.ID}, nil
}

func (p *StripeProvider) CapturePayment(ctx context.Context, providerOrderID string) (Capture, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	intent, err := paymentintent.Capture(providerOrderID, params)
	if err != nil {
		return Capture{}, providerError("capture PaymentIntent", err)
	}
	return captureFromIntent(intent), nil
}

func captureFromIntent(intent *stripe.PaymentIntent) Capture {
	status := strings.ToUpper(string(intent.Status))
	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		status = StatusCompleted
	}
	return Capture{
		ID:         intent.ID,
		Status:     status,
		PayerEmail: intent.ReceiptEmail,
		Amount:     decimal.New(intent.AmountReceived, -2).StringFixed(2),
	}
}

func toCents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("montant invalide %q", amount)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
