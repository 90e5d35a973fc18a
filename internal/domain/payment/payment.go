// Package payment defines the contract with the external payment provider.
// The storefront only consumes "payment confirmed, amount X, id Y"; charging
// happens entirely on the provider's side.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Confirmation is what a successful payment check supplies: an opaque payment
// identifier, the provider's status string, and the authorized amount.
type Confirmation struct {
	ID     string
	Status string
	Amount decimal.Decimal
}

// RejectedError indicates the provider did not confirm the payment for the
// expected amount. Nothing is persisted when this is returned.
type RejectedError struct {
	PaymentID string
	Reason    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment %s rejected: %s", e.PaymentID, e.Reason)
}

// Verifier checks a client-supplied payment id against the provider.
// expected is the order total the payment must cover.
type Verifier interface {
	Verify(ctx context.Context, paymentID string, expected decimal.Decimal) (*Confirmation, error)
}

// TrustingVerifier accepts the client-supplied payment id without a
// provider-side check, matching the original storefront behavior. Each
// acceptance is logged so the gap stays visible in operations.
type TrustingVerifier struct {
	lg *zap.Logger
}

// NewTrustingVerifier creates a TrustingVerifier logging through lg.
func NewTrustingVerifier(lg *zap.Logger) *TrustingVerifier {
	return &TrustingVerifier{lg: lg}
}

// Verify returns a confirmation mirroring the claim.
func (v *TrustingVerifier) Verify(_ context.Context, paymentID string, expected decimal.Decimal) (*Confirmation, error) {
	v.lg.Info("accepting payment without provider verification",
		zap.String("payment_id", paymentID),
		zap.String("amount", expected.StringFixed(2)),
	)
	return &Confirmation{
		ID:     paymentID,
		Status: "COMPLETED",
		Amount: expected,
	}, nil
}
