package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultPayPalBaseURL is the live PayPal REST endpoint.
const DefaultPayPalBaseURL = "https://api-m.paypal.com"

// PayPalVerifier checks payment ids against the PayPal Orders API using
// basic-auth client credentials.
type PayPalVerifier struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client
}

// NewPayPalVerifier creates a verifier for the given REST endpoint. An empty
// baseURL selects the live endpoint.
func NewPayPalVerifier(baseURL, clientID, secret string) *PayPalVerifier {
	if baseURL == "" {
		baseURL = DefaultPayPalBaseURL
	}
	return &PayPalVerifier{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// paypalOrder is the subset of the Orders API response the verifier reads.
type paypalOrder struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// Verify fetches the PayPal order and requires a COMPLETED or APPROVED status
// and an authorized amount covering the expected total. A provider outage
// surfaces as a plain error; a confirmed mismatch as *RejectedError.
func (v *PayPalVerifier) Verify(ctx context.Context, paymentID string, expected decimal.Decimal) (*Confirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.baseURL+"/v2/checkout/orders/"+paymentID, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "build paypal request")
	}
	req.SetBasicAuth(v.clientID, v.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call paypal")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &RejectedError{PaymentID: paymentID, Reason: "unknown payment id"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("paypal responded %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read paypal response")
	}

	var po paypalOrder
	if err := json.Unmarshal(body, &po); err != nil {
		return nil, errors.Wrap(err, "parse paypal response")
	}

	if po.Status != "COMPLETED" && po.Status != "APPROVED" {
		return nil, &RejectedError{PaymentID: paymentID, Reason: "status " + po.Status}
	}
	if len(po.PurchaseUnits) == 0 {
		return nil, &RejectedError{PaymentID: paymentID, Reason: "no purchase units"}
	}

	amount, err := decimal.NewFromString(po.PurchaseUnits[0].Amount.Value)
	if err != nil {
		return nil, errors.Wrap(err, "parse paypal amount")
	}
	if amount.LessThan(expected) {
		return nil, &RejectedError{PaymentID: paymentID, Reason: "authorized amount below order total"}
	}

	return &Confirmation{ID: po.ID, Status: po.Status, Amount: amount}, nil
}
