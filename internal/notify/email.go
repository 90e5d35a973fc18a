package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderEmail carries the order fields the admin notification renders.
type OrderEmail struct {
	OrderID         string
	CustomerName    string
	CustomerEmail   string
	Whatsapp        string
	DeliveryAddress string
	Items           []OrderEmailItem
	TotalQuantity   int
	TotalPrice      decimal.Decimal
	PaymentID       string
	ReferralCode    string
}

// OrderEmailItem is one rendered cart line.
type OrderEmailItem struct {
	Name     string
	Size     string
	Quantity int
	Price    decimal.Decimal
}

// ContactEmail carries the contact-form fields the admin notification
// renders.
type ContactEmail struct {
	Name    string
	Email   string
	Message string
}

// FormatOrder renders the admin notification for a submitted order. All user
// input is HTML-escaped.
func FormatOrder(o OrderEmail) Notification {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2>New Tracksuit Order Received</h2>`)

	b.WriteString(`<div style="background: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0;">Customer</h3>`)
	fmt.Fprintf(&b, `<p><strong>Name:</strong> %s</p>`, html.EscapeString(o.CustomerName))
	fmt.Fprintf(&b, `<p><strong>Email:</strong> %s</p>`, html.EscapeString(o.CustomerEmail))
	fmt.Fprintf(&b, `<p><strong>WhatsApp:</strong> %s</p>`, html.EscapeString(o.Whatsapp))
	fmt.Fprintf(&b, `<p><strong>Delivery Address:</strong> %s</p>`, html.EscapeString(o.DeliveryAddress))
	b.WriteString(`</div>`)

	b.WriteString(`<div style="background: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0;">Items</h3><ul>`)
	for _, item := range o.Items {
		fmt.Fprintf(&b, `<li>%s (size %s) &times; %d @ $%s</li>`,
			html.EscapeString(item.Name),
			html.EscapeString(item.Size),
			item.Quantity,
			item.Price.StringFixed(2),
		)
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<p><strong>Total:</strong> %d items, $%s</p>`, o.TotalQuantity, o.TotalPrice.StringFixed(2))
	b.WriteString(`</div>`)

	b.WriteString(`<div style="background: #1f2937; color: white; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0;">Payment</h3>`)
	fmt.Fprintf(&b, `<p><strong>Payment ID:</strong> %s</p>`, html.EscapeString(o.PaymentID))
	fmt.Fprintf(&b, `<p><strong>Order ID:</strong> %s</p>`, html.EscapeString(o.OrderID))
	if o.ReferralCode != "" {
		fmt.Fprintf(&b, `<p><strong>Referral Code:</strong> %s</p>`, html.EscapeString(o.ReferralCode))
	}
	b.WriteString(`</div></div>`)

	return Notification{
		Kind:    KindOrder,
		Subject: fmt.Sprintf("New order from %s ($%s)", o.CustomerName, o.TotalPrice.StringFixed(2)),
		HTML:    b.String(),
		ReplyTo: o.CustomerEmail,
	}
}

// FormatContact renders the admin notification for a contact message.
func FormatContact(c ContactEmail) Notification {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2>New Contact Form Submission</h2>`)
	b.WriteString(`<div style="background: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	fmt.Fprintf(&b, `<p><strong>Name:</strong> %s</p>`, html.EscapeString(c.Name))
	fmt.Fprintf(&b, `<p><strong>Email:</strong> %s</p>`, html.EscapeString(c.Email))
	fmt.Fprintf(&b, `<p><strong>Message:</strong></p><div style="background: white; padding: 15px; border-radius: 4px;">%s</div>`,
		strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>"))
	b.WriteString(`</div></div>`)

	return Notification{
		Kind:    KindContact,
		Subject: fmt.Sprintf("New contact message from %s", c.Name),
		HTML:    b.String(),
		ReplyTo: c.Email,
	}
}
