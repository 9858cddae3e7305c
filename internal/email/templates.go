package email

import (
	"fmt"
	"html/template"
	"strings"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice int64
}

// Confirmation is everything the order confirmation mail shows.
type Confirmation struct {
	Number            string
	CustomerName      string
	Items             []OrderItem
	Total             int64
	PaymentMethod     string
	EstimatedDelivery string
}

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"yen": formatNumber,
	"lineTotal": func(item OrderItem) int64 {
		return item.UnitPrice * int64(item.Quantity)
	},
	"label": func(item OrderItem) string {
		if item.Name == "" {
			return item.ItemID
		}
		return item.Name
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #0096db; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Order Confirmed!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none;">
		<p style="margin-top: 0;">Thank you, {{.CustomerName}}. Your food is being prepared and will be with you soon.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">{{.Number}}</p>
			<p style="margin: 10px 0 0 0; font-size: 14px; color: #666;">Estimated delivery: {{.EstimatedDelivery}}</p>
		</div>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{label .}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">¥{{yen .UnitPrice}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">¥{{yen (lineTotal .)}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total (tax included, paid by {{.PaymentMethod}})</span>
			<span style="font-size: 24px; font-weight: bold; color: #0096db; margin-left: 10px;">¥{{yen .Total}}</span>
		</div>
	</div>
</body>
</html>`))

// BuildOrderConfirmationBody builds the HTML body for order confirmation email.
// Every customer or catalog supplied field is HTML escaped.
func BuildOrderConfirmationBody(c Confirmation) (string, error) {
	var body strings.Builder
	if err := confirmationTemplate.Execute(&body, c); err != nil {
		return "", fmt.Errorf("render confirmation %s: %w", c.Number, err)
	}
	return body.String(), nil
}

// formatNumber formats a number with comma separators
func formatNumber(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
