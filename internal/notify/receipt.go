package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"ecom_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

type ReceiptData struct {
	AppName  string
	Order    models.Order
	OrderURL string
	// QRSource valeur de l'attribut src (cid: ou data URI)
	QRSource string
}

type receiptLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.AppName}} - Order Confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Thank you for your purchase!</h2>
		<p>Order <strong>{{.ID}}</strong></p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left;">Product</th>
					<th style="padding: 10px; text-align: left;">Quantity</th>
					<th style="padding: 10px; text-align: left;">Price</th>
					<th style="padding: 10px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{range .Lines}}<tr>
					<td style="padding: 10px;">{{.Name}}</td>
					<td style="padding: 10px;">{{.Quantity}}</td>
					<td style="padding: 10px;">${{.Price}}</td>
					<td style="padding: 10px;">${{.Total}}</td>
				</tr>
			{{end}}</tbody>
			<tfoot>
				<tr><td colspan="3" style="text-align: right;">Items:</td><td>${{.ItemsPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Shipping:</td><td>${{.ShippingPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Tax:</td><td>${{.TaxPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right; font-weight: bold;">Total:</td><td style="font-weight: bold;">${{.TotalPrice}}</td></tr>
			</tfoot>
		</table>
		<p><a href="{{.OrderURL}}">View your order</a></p>
		<img src="{{.QRSource}}" alt="Order QR code" width="160" height="160">
		<p style="margin-top: 30px; color: #555;">{{.AppName}}</p>
	</div>
</body>
</html>`))

// ReceiptHTML rend le corps HTML du reçu
func ReceiptHTML(d ReceiptData) (string, error) {
	lines := make([]receiptLine, 0, len(d.Order.Items))
	for _, it := range d.Order.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return "", fmt.Errorf("prix de %q: %w", it.Name, err)
		}
		lines = append(lines, receiptLine{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    price.StringFixed(2),
			Total:    price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		})
	}

	var buf bytes.Buffer
	err := receiptTmpl.Execute(&buf, map[string]any{
		"AppName":       d.AppName,
		"ID":            d.Order.ID.Hex(),
		"Lines":         lines,
		"ItemsPrice":    d.Order.ItemsPrice,
		"ShippingPrice": d.Order.ShippingPrice,
		"TaxPrice":      d.Order.TaxPrice,
		"TotalPrice":    d.Order.TotalPrice,
		"OrderURL":      d.OrderURL,
		"QRSource":      template.URL(d.QRSource),
	})
	if err != nil {
		return "", fmt.Errorf("rendu reçu: %w", err)
	}
	return buf.String(), nil
}

// OrderURL lien vers la page commande du compte client
func OrderURL(baseURL, orderID string) string {
	return strings.TrimRight(baseURL, "/") + "/account/orders/" + orderID
}

// OrderQR QR code PNG pointant vers la page commande
func OrderQR(orderURL string) ([]byte, error) {
	return qrcode.Encode(orderURL, qrcode.Medium, 256)
}
