// Package validate holds the field-level validation machinery shared by the
// order and contact submission paths.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule identifiers carried by Error so callers can check which rule was
// violated without parsing messages.
const (
	RuleInvalidBody    = "invalid_body"
	RuleRequiredFields = "required_fields"
	RuleInvalidEmail   = "invalid_email"
	RuleEmptyCart      = "empty_cart"
	RuleInvalidItems   = "invalid_items"
	RuleMinQuantity    = "min_quantity"
	RuleMinAmount      = "min_amount"
)

// Error is a rejection of a caller's payload. It is never retryable as-is;
// the violated rule and a human-readable message are surfaced to the caller.
type Error struct {
	Rule    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Failf builds a validation Error for the given rule.
func Failf(rule, format string, args ...any) *Error {
	return &Error{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// A deliberate simplification: local@domain.tld shape only, not full RFC 5322.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailValid reports whether s looks like an email address.
func EmailValid(s string) bool {
	return emailRE.MatchString(s)
}

// NormalizeEmail trims and lower-cases an email so referral lookups and
// duplicate detection are case-insensitive by construction.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RequireAll returns the name of the first empty field, trimming each value
// before the check. The bool is false when every field is present.
func RequireAll(fields map[string]string, ordered []string) (string, bool) {
	for _, name := range ordered {
		if strings.TrimSpace(fields[name]) == "" {
			return name, false
		}
	}
	return "", true
}
