package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/contact"
	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/domain/referral"
)

// Admin view types. They expose the persisted records verbatim; amounts are
// serialized as fixed two-decimal strings to avoid float drift in exports.
type orderView struct {
	ID               string          `json:"id"`
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	CustomerWhatsapp string          `json:"customerWhatsapp"`
	DeliveryAddress  string          `json:"deliveryAddress"`
	CartItems        []cart.LineItem `json:"cartItems"`
	TotalPrice       string          `json:"totalPrice"`
	TotalQuantity    int             `json:"totalQuantity"`
	PaymentID        string          `json:"paymentId"`
	ReferralCode     string          `json:"referralCode,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type referralView struct {
	ID                string    `json:"id"`
	ReferralCode      string    `json:"referralCode"`
	ReferrerEmail     string    `json:"referrerEmail"`
	ReferrerName      string    `json:"referrerName"`
	ReferredCustomers []string  `json:"referredCustomers"`
	CompletedOrders   []string  `json:"completedOrders"`
	TotalEarnings     string    `json:"totalEarnings"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type contactView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type adminData struct {
	Orders    []orderView    `json:"orders"`
	Referrals []referralView `json:"referrals"`
	Contacts  []contactView  `json:"contacts"`
}

// AdminOrders lists the most recent orders, newest first.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.orderRepo.ListRecent(ctx, AdminListLimit)
	if err != nil {
		writeError(ctx, w, errors.Wrap(err, "list orders"))
		return
	}
	writeJSON(ctx, w, http.StatusOK, toOrderViews(records))
}

// AdminReferrals lists the most recent referral records, newest first.
func (h *Handler) AdminReferrals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.refRepo.ListRecent(ctx, AdminListLimit)
	if err != nil {
		writeError(ctx, w, errors.Wrap(err, "list referrals"))
		return
	}
	writeJSON(ctx, w, http.StatusOK, toReferralViews(records))
}

// AdminContacts lists the most recent contact messages, newest first.
func (h *Handler) AdminContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.contacts.ListRecent(ctx, AdminListLimit)
	if err != nil {
		writeError(ctx, w, errors.Wrap(err, "list contacts"))
		return
	}
	writeJSON(ctx, w, http.StatusOK, toContactViews(records))
}

// AdminData returns all three admin lists in one payload. The reads are
// independent, so they run concurrently.
func (h *Handler) AdminData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		orders    []order.Order
		referrals []referral.Record
		messages  []contact.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = h.orderRepo.ListRecent(gctx, AdminListLimit)
		return errors.Wrap(err, "list orders")
	})
	g.Go(func() (err error) {
		referrals, err = h.refRepo.ListRecent(gctx, AdminListLimit)
		return errors.Wrap(err, "list referrals")
	})
	g.Go(func() (err error) {
		messages, err = h.contacts.ListRecent(gctx, AdminListLimit)
		return errors.Wrap(err, "list contacts")
	})
	if err := g.Wait(); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adminData{
		Orders:    toOrderViews(orders),
		Referrals: toReferralViews(referrals),
		Contacts:  toContactViews(messages),
	})
}

func toOrderViews(records []order.Order) []orderView {
	out := make([]orderView, len(records))
	for i, o := range records {
		out[i] = orderView{
			ID:               o.ID,
			CustomerName:     o.CustomerName,
			CustomerEmail:    o.CustomerEmail,
			CustomerWhatsapp: o.CustomerWhatsapp,
			DeliveryAddress:  o.DeliveryAddress,
			CartItems:        o.CartItems,
			TotalPrice:       o.TotalPrice.StringFixed(2),
			TotalQuantity:    o.TotalQuantity,
			PaymentID:        o.PaymentID,
			ReferralCode:     o.ReferralCode,
			Status:           string(o.Status),
			CreatedAt:        o.CreatedAt,
			UpdatedAt:        o.UpdatedAt,
		}
	}
	return out
}

func toReferralViews(records []referral.Record) []referralView {
	out := make([]referralView, len(records))
	for i, rec := range records {
		out[i] = referralView{
			ID:                rec.ID,
			ReferralCode:      rec.Code,
			ReferrerEmail:     rec.ReferrerEmail,
			ReferrerName:      rec.ReferrerName,
			ReferredCustomers: rec.ReferredCustomers,
			CompletedOrders:   rec.CompletedOrders,
			TotalEarnings:     rec.TotalEarnings.StringFixed(2),
			CreatedAt:         rec.CreatedAt,
			UpdatedAt:         rec.UpdatedAt,
		}
	}
	return out
}

func toContactViews(records []contact.Message) []contactView {
	out := make([]contactView, len(records))
	for i, m := range records {
		out[i] = contactView{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}
