package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"ecom_back_end/internal/config"
	"ecom_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

const qrName = "order-qr.png"

// Mailer envoie les e-mails transactionnels via SMTP
type Mailer struct {
	host        string
	port        int
	username    string
	password    string
	senderName  string
	senderEmail string
	appName     string
	baseURL     string
}

func NewMailer(cfg config.Settings) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		appName:     cfg.AppName,
		baseURL:     cfg.BaseURL,
	}
}

// Enabled faux tant qu'aucun serveur SMTP n'est configuré
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// SendPurchaseReceipt envoie le reçu d'une commande payée
func (m *Mailer) SendPurchaseReceipt(ctx context.Context, order models.Order, to string) error {
	msg, err := m.BuildReceipt(order, to)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("client SMTP: %w", err)
	}

	slog.Info("📤 Envoi du reçu", "to", to, "order_id", order.ID.Hex())
	return client.DialAndSendWithContext(ctx, msg)
}

// BuildReceipt prépare le message complet sans l'envoyer
func (m *Mailer) BuildReceipt(order models.Order, to string) (*mail.Msg, error) {
	orderURL := OrderURL(m.baseURL, order.ID.Hex())
	png, err := OrderQR(orderURL)
	if err != nil {
		return nil, fmt.Errorf("QR commande: %w", err)
	}

	body, err := ReceiptHTML(ReceiptData{
		AppName:  m.appName,
		Order:    order,
		OrderURL: orderURL,
		QRSource: "cid:" + qrName,
	})
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.senderName, m.senderEmail); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject("Order Confirmation")
	msg.SetBodyString(mail.TypeTextHTML, body)
	if err := msg.EmbedReader(qrName, bytes.NewReader(png)); err != nil {
		return nil, err
	}
	return msg, nil
}
