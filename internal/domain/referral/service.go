package referral

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/validate"
)

// DefaultBonus is the fixed amount credited per completed referred order.
var DefaultBonus = decimal.NewFromInt(100)

// issueAttempts bounds code regeneration when the store reports a collision.
const issueAttempts = 5

// Service issues referral codes and applies order credits to the ledger.
type Service struct {
	repo  Repository
	bonus decimal.Decimal
}

// NewService creates a referral Service crediting bonus per completed order.
func NewService(repo Repository, bonus decimal.Decimal) *Service {
	return &Service{repo: repo, bonus: bonus}
}

// Issue validates the referrer identity, generates a unique code, and writes
// a fresh record with zeroed ledger fields. On a code collision it retries
// with a new code.
func (s *Service) Issue(ctx context.Context, email, name string) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validate.Failf(validate.RuleRequiredFields, "name is required")
	}
	email = validate.NormalizeEmail(email)
	if email == "" {
		return nil, validate.Failf(validate.RuleRequiredFields, "email is required")
	}
	if !validate.EmailValid(email) {
		return nil, validate.Failf(validate.RuleInvalidEmail, "invalid email format")
	}

	for attempt := 0; attempt < issueAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, errors.Wrap(err, "generate referral code")
		}

		r := &Record{
			Code:          code,
			ReferrerEmail: email,
			ReferrerName:  strings.TrimSpace(name),
			TotalEarnings: decimal.Zero,
		}

		id, err := s.repo.Create(ctx, r)
		if errors.Is(err, ErrCodeExists) {
			zctx.From(ctx).Warn("referral code collision, regenerating",
				zap.String("code", code), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "create referral record")
		}

		r.ID = id
		return r, nil
	}

	return nil, errors.Errorf("could not issue a unique referral code after %d attempts", issueAttempts)
}

// Apply credits a completed order to the record for code. An unknown code is
// an anomaly, not an error: the order is already committed, so it is logged
// and the call returns nil. Store failures are returned for the caller to
// log; they must never unwind the order either.
func (s *Service) Apply(ctx context.Context, code, customerEmail, orderID string) error {
	err := s.repo.Credit(ctx, code, customerEmail, orderID, s.bonus)
	if errors.Is(err, ErrNotFound) {
		zctx.From(ctx).Warn("order carried a referral code that does not resolve",
			zap.String("code", code),
			zap.String("order_id", orderID),
		)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "credit referral %s", code)
	}
	return nil
}
