// Package contact handles contact-form messages. They share the order path's
// validation machinery but have no further lifecycle: append-only records.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/solkim/tracksuit-store/internal/domain/validate"
)

// Message is a persisted contact-form submission.
type Message struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Repository defines persistence operations for contact messages.
type Repository interface {
	Create(ctx context.Context, m *Message) (string, error)
	ListRecent(ctx context.Context, limit int) ([]Message, error)
}

// Validate checks and normalizes a raw message, failing fast on the first
// violated rule.
func Validate(m Message) (Message, error) {
	if field, ok := validate.RequireAll(map[string]string{
		"name":    m.Name,
		"email":   m.Email,
		"message": m.Message,
	}, []string{"name", "email", "message"}); !ok {
		return Message{}, validate.Failf(validate.RuleRequiredFields, "%s is required", field)
	}

	email := validate.NormalizeEmail(m.Email)
	if !validate.EmailValid(email) {
		return Message{}, validate.Failf(validate.RuleInvalidEmail, "invalid email format")
	}

	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   email,
		Message: strings.TrimSpace(m.Message),
	}, nil
}
