package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayPalStub(t *testing.T, status string, amount string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client", user)
		require.Equal(t, "secret", pass)

		if r.URL.Path == "/v2/checkout/orders/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "PAY-1",
			"status": status,
			"purchase_units": []map[string]any{
				{"amount": map[string]string{"currency_code": "USD", "value": amount}},
			},
		})
	}))
}

func TestPayPalVerifier_Confirmed(t *testing.T) {
	srv := newPayPalStub(t, "COMPLETED", "30.00")
	defer srv.Close()

	v := NewPayPalVerifier(srv.URL, "client", "secret")
	conf, err := v.Verify(context.Background(), "PAY-1", decimal.NewFromInt(30))
	require.NoError(t, err)

	assert.Equal(t, "PAY-1", conf.ID)
	assert.Equal(t, "COMPLETED", conf.Status)
	assert.True(t, conf.Amount.Equal(decimal.NewFromInt(30)))
}

func TestPayPalVerifier_AmountTooLow(t *testing.T) {
	srv := newPayPalStub(t, "COMPLETED", "20.00")
	defer srv.Close()

	v := NewPayPalVerifier(srv.URL, "client", "secret")
	_, err := v.Verify(context.Background(), "PAY-1", decimal.NewFromInt(30))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "PAY-1", rejected.PaymentID)
}

func TestPayPalVerifier_BadStatus(t *testing.T) {
	srv := newPayPalStub(t, "VOIDED", "30.00")
	defer srv.Close()

	v := NewPayPalVerifier(srv.URL, "client", "secret")
	_, err := v.Verify(context.Background(), "PAY-1", decimal.NewFromInt(30))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
}

func TestPayPalVerifier_UnknownPayment(t *testing.T) {
	srv := newPayPalStub(t, "COMPLETED", "30.00")
	defer srv.Close()

	v := NewPayPalVerifier(srv.URL, "client", "secret")
	_, err := v.Verify(context.Background(), "missing", decimal.NewFromInt(30))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "missing", rejected.PaymentID)
}
