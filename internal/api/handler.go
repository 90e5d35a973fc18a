// Package api exposes the storefront over HTTP: order submission, referral
// issuance, contact messages, catalog reads, and the gated admin surface.
package api

import (
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"github.com/solkim/tracksuit-store/internal/domain/auth"
	"github.com/solkim/tracksuit-store/internal/domain/catalog"
	"github.com/solkim/tracksuit-store/internal/domain/contact"
	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/domain/referral"
)

// AdminListLimit caps every admin list at the most recent records.
const AdminListLimit = 100

// ContactNotifier receives persisted contact messages for best-effort email
// notification. Implementations must not block.
type ContactNotifier interface {
	ContactReceived(m *contact.Message)
}

// Handler carries the domain services and repositories behind the HTTP
// surface. It holds no per-request state.
type Handler struct {
	products  catalog.Repository
	orders    *order.Service
	orderRepo order.Repository
	referrals *referral.Service
	refRepo   referral.Repository
	contacts  contact.Repository
	notifier  ContactNotifier
	apikeys   auth.Repository
	pepper    []byte

	ordersSubmitted metric.Int64Counter
	codesIssued     metric.Int64Counter
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	meter metric.Meter,
	products catalog.Repository,
	orders *order.Service,
	orderRepo order.Repository,
	referrals *referral.Service,
	refRepo referral.Repository,
	contacts contact.Repository,
	notifier ContactNotifier,
	apikeys auth.Repository,
	pepper []byte,
) (*Handler, error) {
	ordersSubmitted, err := meter.Int64Counter("store.orders.submitted",
		metric.WithDescription("Order submissions by outcome"))
	if err != nil {
		return nil, err
	}
	codesIssued, err := meter.Int64Counter("store.referrals.issued",
		metric.WithDescription("Referral codes issued"))
	if err != nil {
		return nil, err
	}

	return &Handler{
		products:        products,
		orders:          orders,
		orderRepo:       orderRepo,
		referrals:       referrals,
		refRepo:         refRepo,
		contacts:        contacts,
		notifier:        notifier,
		apikeys:         apikeys,
		pepper:          pepper,
		ordersSubmitted: ordersSubmitted,
		codesIssued:     codesIssued,
	}, nil
}

// Register attaches all routes to mux. Order submission additionally goes
// through submitLimiter when non-nil, so checkout gets a stricter budget than
// the rest of the API.
func (h *Handler) Register(mux *http.ServeMux, submitLimiter func(http.Handler) http.Handler) {
	submit := http.Handler(http.HandlerFunc(h.SubmitOrder))
	if submitLimiter != nil {
		submit = submitLimiter(submit)
	}
	mux.Handle("POST /api/orders", submit)

	mux.HandleFunc("POST /api/referrals", h.IssueReferral)
	mux.HandleFunc("POST /api/contact", h.SubmitContact)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.Handle("GET /api/admin/orders", h.requireAdmin(http.HandlerFunc(h.AdminOrders)))
	mux.Handle("GET /api/admin/referrals", h.requireAdmin(http.HandlerFunc(h.AdminReferrals)))
	mux.Handle("GET /api/admin/contacts", h.requireAdmin(http.HandlerFunc(h.AdminContacts)))
	mux.Handle("GET /api/admin/data", h.requireAdmin(http.HandlerFunc(h.AdminData)))
}
