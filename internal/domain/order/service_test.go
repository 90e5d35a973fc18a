package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/payment"
	"github.com/solkim/tracksuit-store/internal/domain/validate"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	lastOrder   *Order
	createCalls int
	err         error
	onCreate    func()
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) (string, error) {
	m.createCalls++
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.err != nil {
		return "", m.err
	}
	m.lastOrder = o
	return "order-1", nil
}

func (m *mockOrderRepo) GetByID(context.Context, string) (*Order, error) {
	return m.lastOrder, nil
}

func (m *mockOrderRepo) ListRecent(context.Context, int) ([]Order, error) {
	return nil, nil
}

type mockCrediter struct {
	code, email, orderID string
	calls                int
	ctxErr               error
	err                  error
}

func (m *mockCrediter) Apply(ctx context.Context, code, email, orderID string) error {
	m.calls++
	m.ctxErr = ctx.Err()
	m.code, m.email, m.orderID = code, email, orderID
	return m.err
}

type mockVerifier struct {
	err   error
	calls int
}

func (m *mockVerifier) Verify(_ context.Context, paymentID string, expected decimal.Decimal) (*payment.Confirmation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &payment.Confirmation{ID: paymentID, Status: "COMPLETED", Amount: expected}, nil
}

type mockNotifier struct {
	orders []*Order
}

func (m *mockNotifier) OrderSubmitted(o *Order) {
	m.orders = append(m.orders, o)
}

type testPipeline struct {
	repo     *mockOrderRepo
	credits  *mockCrediter
	verifier *mockVerifier
	notifier *mockNotifier
	svc      *Service
}

func newPipeline() *testPipeline {
	p := &testPipeline{
		repo:     &mockOrderRepo{},
		credits:  &mockCrediter{},
		verifier: &mockVerifier{},
		notifier: &mockNotifier{},
	}
	p.svc = NewService(p.repo, p.credits, p.verifier, p.notifier,
		cart.DefaultMinimumOrderPolicy(), time.Second)
	return p
}

// --- Tests ---

func TestSubmit_Accepted(t *testing.T) {
	p := newPipeline()

	// Cart [{10, 2}, {10, 1}] against the 3 / $30 policy.
	id, err := p.svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.Equal(t, "order-1", id)

	o := p.repo.lastOrder
	require.NotNil(t, o)
	assert.Equal(t, 3, o.TotalQuantity)
	assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(30)), "total = %s", o.TotalPrice)
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, "buyer@example.com", o.CustomerEmail)
	assert.Empty(t, o.ReferredBy)

	assert.Equal(t, 0, p.credits.calls, "no referral code, no credit")
	require.Len(t, p.notifier.orders, 1)
}

func TestSubmit_ValidationRejectsBeforeAnyWrite(t *testing.T) {
	p := newPipeline()
	sub := validSubmission()
	sub.CartItems = sub.CartItems[:1] // quantity 2, below threshold

	_, err := p.svc.Submit(context.Background(), sub)
	requireRule(t, err, validate.RuleMinQuantity)

	assert.Equal(t, 0, p.repo.createCalls, "no store write on validation failure")
	assert.Equal(t, 0, p.verifier.calls)
	assert.Empty(t, p.notifier.orders)
}

func TestSubmit_ReferralCredited(t *testing.T) {
	p := newPipeline()
	sub := validSubmission()
	sub.ReferralCode = "ABCD1234"

	id, err := p.svc.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, 1, p.credits.calls)
	assert.Equal(t, "ABCD1234", p.credits.code)
	assert.Equal(t, "buyer@example.com", p.credits.email)
	assert.Equal(t, id, p.credits.orderID)
}

func TestSubmit_ReferralFailureDoesNotUnwindOrder(t *testing.T) {
	p := newPipeline()
	p.credits.err = errors.New("ledger unavailable")
	sub := validSubmission()
	sub.ReferralCode = "ABCD1234"

	id, err := p.svc.Submit(context.Background(), sub)
	require.NoError(t, err, "referral failure must not fail the submission")
	assert.Equal(t, "order-1", id)
	require.Len(t, p.notifier.orders, 1, "notification still dispatched")
}

func TestSubmit_ReferralCreditSurvivesClientDisconnect(t *testing.T) {
	p := newPipeline()
	sub := validSubmission()
	sub.ReferralCode = "ABCD1234"

	// The client drops the connection while the order write is in flight.
	ctx, cancel := context.WithCancel(context.Background())
	p.repo.onCreate = cancel

	id, err := p.svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)

	require.Equal(t, 1, p.credits.calls, "credit still runs after disconnect")
	assert.NoError(t, p.credits.ctxErr, "credit context must outlive the request")
}

func TestSubmit_PaymentRejected(t *testing.T) {
	p := newPipeline()
	p.verifier.err = &payment.RejectedError{PaymentID: "PAY-123", Reason: "status VOIDED"}

	_, err := p.svc.Submit(context.Background(), validSubmission())

	var rejected *payment.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 0, p.repo.createCalls, "rejected payment persists nothing")
}

func TestSubmit_PersistenceError(t *testing.T) {
	p := newPipeline()
	p.repo.err = errors.New("connection refused")

	_, err := p.svc.Submit(context.Background(), validSubmission())

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, p.credits.calls, "aborted pipeline skips referral")
	assert.Empty(t, p.notifier.orders, "aborted pipeline skips notification")
}

func TestSubmit_Timeout(t *testing.T) {
	p := newPipeline()
	p.repo.err = context.DeadlineExceeded

	_, err := p.svc.Submit(context.Background(), validSubmission())
	require.ErrorIs(t, err, ErrSubmitTimeout)

	var perr *PersistenceError
	assert.False(t, errors.As(err, &perr), "timeout is distinct from persistence failure")
}
