package api

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/order"
)

// orderRequest mirrors the checkout payload sent by the storefront client.
type orderRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Whatsapp        string          `json:"whatsapp"`
	DeliveryAddress string          `json:"deliveryAddress"`
	CartItems       []cart.LineItem `json:"cartItems"`
	PaymentID       string          `json:"paymentId"`
	ReferralCode    string          `json:"referralCode,omitempty"`
}

type orderResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// SubmitOrder runs the checkout pipeline for one submission.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	id, err := h.orders.Submit(ctx, order.Submission{
		Name:            req.Name,
		Email:           req.Email,
		Whatsapp:        req.Whatsapp,
		DeliveryAddress: req.DeliveryAddress,
		CartItems:       req.CartItems,
		PaymentID:       req.PaymentID,
		ReferralCode:    req.ReferralCode,
	})
	if err != nil {
		h.ordersSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		writeError(ctx, w, err)
		return
	}

	h.ordersSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "accepted")))
	writeJSON(ctx, w, http.StatusOK, orderResponse{Success: true, ID: id})
}
