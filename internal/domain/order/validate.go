package order

import (
	"strings"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/validate"
)

// Submission is the raw order payload as received from the client, before
// normalization.
type Submission struct {
	Name            string
	Email           string
	Whatsapp        string
	DeliveryAddress string
	CartItems       []cart.LineItem
	PaymentID       string
	ReferralCode    string
}

// ValidateSubmission checks a raw submission against the minimum-order policy
// and returns a normalized copy, or a *validate.Error for the first violated
// rule. It never partially accepts: the checks run in a fixed order and
// short-circuit on the first failure.
func ValidateSubmission(sub Submission, policy cart.MinimumOrderPolicy) (Submission, error) {
	if field, ok := validate.RequireAll(map[string]string{
		"name":            sub.Name,
		"email":           sub.Email,
		"whatsapp":        sub.Whatsapp,
		"deliveryAddress": sub.DeliveryAddress,
		"paymentId":       sub.PaymentID,
	}, []string{"name", "email", "whatsapp", "deliveryAddress", "paymentId"}); !ok {
		return Submission{}, validate.Failf(validate.RuleRequiredFields, "%s is required", field)
	}

	if len(sub.CartItems) == 0 {
		return Submission{}, validate.Failf(validate.RuleEmptyCart, "cart must contain at least one item")
	}

	email := validate.NormalizeEmail(sub.Email)
	if !validate.EmailValid(email) {
		return Submission{}, validate.Failf(validate.RuleInvalidEmail, "invalid email format")
	}

	for _, item := range sub.CartItems {
		if item.Quantity <= 0 {
			return Submission{}, validate.Failf(validate.RuleInvalidItems,
				"quantity must be greater than 0 for item %s", item.ItemID)
		}
		if item.Price.IsNegative() {
			return Submission{}, validate.Failf(validate.RuleInvalidItems,
				"price must not be negative for item %s", item.ItemID)
		}
	}

	totalQuantity := cart.TotalQuantity(sub.CartItems)
	totalPrice := cart.TotalPrice(sub.CartItems)

	if totalQuantity < policy.MinQuantity {
		return Submission{}, validate.Failf(validate.RuleMinQuantity,
			"minimum order is %d items", policy.MinQuantity)
	}
	if totalPrice.LessThan(policy.MinAmount) {
		return Submission{}, validate.Failf(validate.RuleMinAmount,
			"minimum order amount is %s", policy.MinAmount.StringFixed(2))
	}

	norm := sub
	norm.Name = strings.TrimSpace(sub.Name)
	norm.Email = email
	norm.Whatsapp = strings.TrimSpace(sub.Whatsapp)
	norm.DeliveryAddress = strings.TrimSpace(sub.DeliveryAddress)
	norm.PaymentID = strings.TrimSpace(sub.PaymentID)
	norm.ReferralCode = strings.TrimSpace(sub.ReferralCode)
	return norm, nil
}
