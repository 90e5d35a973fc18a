package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultResendBaseURL is the Resend API endpoint.
const DefaultResendBaseURL = "https://api.resend.com"

// ResendSender delivers notifications through the Resend email API.
type ResendSender struct {
	baseURL string
	apiKey  string
	from    string
	to      string
	client  *http.Client
}

// NewResendSender creates a sender posting to the given endpoint. An empty
// baseURL selects the public API.
func NewResendSender(baseURL, apiKey, from, to string) *ResendSender {
	if baseURL == "" {
		baseURL = DefaultResendBaseURL
	}
	return &ResendSender{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		to:      to,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts the notification and returns the Resend message id.
func (s *ResendSender) Send(ctx context.Context, n Notification) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: n.Subject,
		HTML:    n.HTML,
		ReplyTo: n.ReplyTo,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call resend")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", errors.Wrap(err, "read resend response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("resend responded %d: %s", resp.StatusCode, body)
	}

	var rr resendResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return "", errors.Wrap(err, "parse resend response")
	}
	return rr.ID, nil
}
