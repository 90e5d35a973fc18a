package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/payment"
)

// DefaultSubmitTimeout bounds the persistence attempt for a single order
// submission.
const DefaultSubmitTimeout = 8 * time.Second

// ReferralCrediter applies a completed order to a referrer's ledger.
type ReferralCrediter interface {
	Apply(ctx context.Context, code, customerEmail, orderID string) error
}

// Notifier receives the finalized order for best-effort notification. The
// implementation must not block the request path beyond a channel hand-off.
type Notifier interface {
	OrderSubmitted(o *Order)
}

// Service runs the order submission pipeline. Within one submission the
// ordering is fixed: validation, payment verification, order write, referral
// credit, notification. Only the first three can fail the request; once the
// order is durably recorded, referral and notification problems are logged
// and swallowed.
type Service struct {
	orders        Repository
	referrals     ReferralCrediter
	verifier      payment.Verifier
	notifier      Notifier
	policy        cart.MinimumOrderPolicy
	submitTimeout time.Duration
}

// NewService creates an order Service with the given collaborators. A zero
// submitTimeout selects DefaultSubmitTimeout.
func NewService(
	orders Repository,
	referrals ReferralCrediter,
	verifier payment.Verifier,
	notifier Notifier,
	policy cart.MinimumOrderPolicy,
	submitTimeout time.Duration,
) *Service {
	if submitTimeout <= 0 {
		submitTimeout = DefaultSubmitTimeout
	}
	return &Service{
		orders:        orders,
		referrals:     referrals,
		verifier:      verifier,
		notifier:      notifier,
		policy:        policy,
		submitTimeout: submitTimeout,
	}
}

// Submit validates the submission, verifies the payment, persists the order,
// credits the referral ledger when a code is present, and hands the order to
// the notifier. It returns the new order id.
func (s *Service) Submit(ctx context.Context, sub Submission) (string, error) {
	norm, err := ValidateSubmission(sub, s.policy)
	if err != nil {
		return "", err
	}

	totalPrice := cart.TotalPrice(norm.CartItems)
	totalQuantity := cart.TotalQuantity(norm.CartItems)

	conf, err := s.verifier.Verify(ctx, norm.PaymentID, totalPrice)
	if err != nil {
		var rejected *payment.RejectedError
		if errors.As(err, &rejected) {
			return "", err
		}
		return "", errors.Wrap(err, "verify payment")
	}

	o := &Order{
		CustomerName:     norm.Name,
		CustomerEmail:    norm.Email,
		CustomerWhatsapp: norm.Whatsapp,
		DeliveryAddress:  norm.DeliveryAddress,
		CartItems:        norm.CartItems,
		TotalPrice:       totalPrice,
		TotalQuantity:    totalQuantity,
		PaymentID:        conf.ID,
		ReferralCode:     norm.ReferralCode,
		Status:           StatusPaid,
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	id, err := s.orders.Create(writeCtx, o)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrSubmitTimeout
		}
		return "", &PersistenceError{Op: "create order", Err: err}
	}
	o.ID = id

	// The order is committed. Everything past this point is best-effort and
	// must not change the response. The credit runs detached from the
	// request context: a client that disconnects after the commit must not
	// cancel the attribution.
	if o.ReferralCode != "" {
		creditCtx, creditCancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
		err := s.referrals.Apply(creditCtx, o.ReferralCode, o.CustomerEmail, o.ID)
		creditCancel()
		if err != nil {
			zctx.From(ctx).Error("referral credit failed after order commit",
				zap.String("order_id", o.ID),
				zap.String("code", o.ReferralCode),
				zap.Error(err),
			)
		}
	}

	s.notifier.OrderSubmitted(o)

	return id, nil
}
