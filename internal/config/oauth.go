package config

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// PayPalOAuthConfig flux client-credentials pour l'API REST PayPal
func (s Settings) PayPalOAuthConfig() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     s.PayPalClientID,
		ClientSecret: s.PayPalClientSecret,
		TokenURL:     strings.TrimRight(s.PayPalAPIURL, "/") + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
}

// PayPalHTTPClient client HTTP qui ajoute et renouvelle le bearer token tout seul
func (s Settings) PayPalHTTPClient(ctx context.Context, base *http.Client) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return s.PayPalOAuthConfig().Client(ctx)
}
