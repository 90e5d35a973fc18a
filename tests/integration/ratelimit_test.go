//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// TestOrderSubmissionRateLimit drives one forwarded IP past the checkout
// budget (5 per minute) and expects 429 with Retry-After.
func TestOrderSubmissionRateLimit(t *testing.T) {
	const ip = "192.0.2.99"

	var limited *http.Response
	for range 7 {
		resp := doPost(t, "/api/orders", validOrder(ip), ip)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = resp
			break
		}
		resp.Body.Close()
	}

	if limited == nil {
		t.Fatal("submission limiter never triggered within 7 requests")
	}
	if limited.Header.Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After")
	}

	errBody := decodeJSON[errorResponse](t, limited)
	if errBody.Error != "rate limit exceeded" {
		t.Errorf("error: got %q", errBody.Error)
	}
}
