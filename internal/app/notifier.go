package app

import (
	"context"

	"github.com/solkim/tracksuit-store/internal/domain/contact"
	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/notify"
)

// workerNotifier adapts the notify worker to the domain notification
// interfaces: it formats events into emails and enqueues them without
// blocking.
type workerNotifier struct {
	worker *notify.Worker
}

func (n *workerNotifier) OrderSubmitted(o *order.Order) {
	items := make([]notify.OrderEmailItem, len(o.CartItems))
	for i, item := range o.CartItems {
		items[i] = notify.OrderEmailItem{
			Name:     item.ItemName,
			Size:     item.SelectedSize,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	n.worker.Enqueue(notify.FormatOrder(notify.OrderEmail{
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Whatsapp:        o.CustomerWhatsapp,
		DeliveryAddress: o.DeliveryAddress,
		Items:           items,
		TotalQuantity:   o.TotalQuantity,
		TotalPrice:      o.TotalPrice,
		PaymentID:       o.PaymentID,
		ReferralCode:    o.ReferralCode,
	}))
}

func (n *workerNotifier) ContactReceived(m *contact.Message) {
	n.worker.Enqueue(notify.FormatContact(notify.ContactEmail{
		Name:    m.Name,
		Email:   m.Email,
		Message: m.Message,
	}))
}

// logSender stands in when no Resend key is configured: notifications are
// acknowledged without leaving the process, so the rest of the pipeline stays
// exercised in development.
type logSender struct{}

func (logSender) Send(_ context.Context, _ notify.Notification) (string, error) {
	return "not-sent", nil
}
