package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// PayPalProvider API REST v2 "checkout orders". Le client HTTP fourni doit
// porter le token OAuth2 (voir config.Settings.PayPalHTTPClient).
type PayPalProvider struct {
	client   *http.Client
	baseURL  string
	currency string
}

func NewPayPalProvider(client *http.Client, baseURL string) *PayPalProvider {
	return &PayPalProvider{client: client, baseURL: strings.TrimRight(baseURL, "/"), currency: "USD"}
}

func (p *PayPalProvider) Name() string { return "paypal" }

type paypalAmount struct {
	CurrencyCode string `json:"currency_code,omitempty"`
	Value        string `json:"value"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string       `json:"id"`
				Status string       `json:"status"`
				Amount paypalAmount `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *PayPalProvider) CreateOrder(ctx context.Context, amount string) (CreatedOrder, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": paypalAmount{CurrencyCode: p.currency, Value: amount}},
		},
	}

	var res paypalOrderResponse
	if err := p.do(ctx, "/v2/checkout/orders", body, &res); err != nil {
		return CreatedOrder{}, providerError("création commande PayPal", err)
	}
	if res.ID == "" {
		return CreatedOrder{}, providerError("création commande PayPal", fmt.Errorf("réponse sans id"))
	}
	return CreatedOrder{ID: res.ID}, nil
}

func (p *PayPalProvider) CapturePayment(ctx context.Context, providerOrderID string) (Capture, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(providerOrderID) + "/capture"

	var res paypalOrderResponse
	if err := p.do(ctx, path, nil, &res); err != nil {
		return Capture{}, providerError("capture PayPal", err)
	}

	c := Capture{ID: res.ID, Status: res.Status, PayerEmail: res.Payer.EmailAddress}
	if len(res.PurchaseUnits) > 0 && len(res.PurchaseUnits[0].Payments.Captures) > 0 {
		c.Amount = res.PurchaseUnits[0].Payments.Captures[0].Amount.Value
	}
	return c, nil
}

func (p *PayPalProvider) do(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
