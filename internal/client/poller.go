package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultPollInterval = 2 * time.Second

// OrderPaidPoller interroge GET /api/orders/{id} jusqu'à ce que la commande soit payée.
// Les requêtes sont séquentielles : jamais plus d'un appel en vol.
type OrderPaidPoller struct {
	baseURL  string
	http     *http.Client
	interval time.Duration
}

type Option func(*OrderPaidPoller)

func WithHTTPClient(c *http.Client) Option {
	return func(p *OrderPaidPoller) { p.http = c }
}

func WithInterval(d time.Duration) Option {
	return func(p *OrderPaidPoller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func NewOrderPaidPoller(baseURL string, opts ...Option) *OrderPaidPoller {
	p := &OrderPaidPoller{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run bloque jusqu'au paiement (onPaid appelé une seule fois, retour nil) ou
// jusqu'à l'annulation du contexte. Une commande déjà payée au départ ne
// déclenche aucun appel.
func (p *OrderPaidPoller) Run(ctx context.Context, orderID string, initialIsPaid bool, onPaid func()) error {
	if initialIsPaid {
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			paid, err := p.check(ctx, orderID)
			if err != nil {
				// réponses non OK ignorées, on retente au prochain tick
				if ctx.Err() == nil {
					slog.Debug("poll commande", "order_id", orderID, "error", err)
				}
				continue
			}
			if paid {
				onPaid()
				return nil
			}
		}
	}
}

// Start lance Run en arrière-plan ; stop annule et attend la fin.
func (p *OrderPaidPoller) Start(ctx context.Context, orderID string, initialIsPaid bool, onPaid func()) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx, orderID, initialIsPaid, onPaid)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (p *OrderPaidPoller) check(ctx context.Context, orderID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return false, err
	}
	res, err := p.http.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("statut %d", res.StatusCode)
	}
	var body struct {
		IsPaid bool `json:"isPaid"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("décodage réponse: %w", err)
	}
	return body.IsPaid, nil
}
