package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/auth"
	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/catalog"
	"github.com/solkim/tracksuit-store/internal/domain/contact"
	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/domain/payment"
	"github.com/solkim/tracksuit-store/internal/domain/referral"
)

// --- Mock implementations ---

type mockProductRepo struct {
	products []catalog.Product
	listErr  error
}

func (m *mockProductRepo) List(_ context.Context) ([]catalog.Product, error) {
	return m.products, m.listErr
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

type mockOrderRepo struct {
	orders []order.Order
	nextID int
	err    error
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	id := fmt.Sprintf("order-%d", m.nextID)
	saved := *o
	saved.ID = id
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	m.orders = append([]order.Order{saved}, m.orders...)
	return id, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return &m.orders[i], nil
		}
	}
	return nil, fmt.Errorf("order %q not found", id)
}

func (m *mockOrderRepo) ListRecent(_ context.Context, limit int) ([]order.Order, error) {
	if len(m.orders) > limit {
		return m.orders[:limit], nil
	}
	return m.orders, nil
}

type mockReferralRepo struct {
	records map[string]*referral.Record
}

func newMockReferralRepo() *mockReferralRepo {
	return &mockReferralRepo{records: make(map[string]*referral.Record)}
}

func (m *mockReferralRepo) Create(_ context.Context, r *referral.Record) (string, error) {
	if _, ok := m.records[r.Code]; ok {
		return "", referral.ErrCodeExists
	}
	saved := *r
	saved.ID = fmt.Sprintf("ref-%d", len(m.records)+1)
	m.records[r.Code] = &saved
	return saved.ID, nil
}

func (m *mockReferralRepo) FindByCode(_ context.Context, code string) (*referral.Record, error) {
	r, ok := m.records[code]
	if !ok {
		return nil, referral.ErrNotFound
	}
	return r, nil
}

func (m *mockReferralRepo) Credit(_ context.Context, code, customerEmail, orderID string, bonus decimal.Decimal) error {
	r, ok := m.records[code]
	if !ok {
		return referral.ErrNotFound
	}
	r.ReferredCustomers = append(r.ReferredCustomers, customerEmail)
	r.CompletedOrders = append(r.CompletedOrders, orderID)
	r.TotalEarnings = bonus.Mul(decimal.NewFromInt(int64(len(r.CompletedOrders))))
	return nil
}

func (m *mockReferralRepo) ListRecent(_ context.Context, _ int) ([]referral.Record, error) {
	out := make([]referral.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, nil
}

type mockContactRepo struct {
	messages []contact.Message
	err      error
}

func (m *mockContactRepo) Create(_ context.Context, msg *contact.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	id := fmt.Sprintf("msg-%d", len(m.messages)+1)
	saved := *msg
	saved.ID = id
	m.messages = append([]contact.Message{saved}, m.messages...)
	return id, nil
}

func (m *mockContactRepo) ListRecent(_ context.Context, _ int) ([]contact.Message, error) {
	return m.messages, m.err
}

type mockAPIKeyRepo struct {
	key *auth.APIKey
}

func (m *mockAPIKeyRepo) FindByHash(_ context.Context, hash string) (*auth.APIKey, error) {
	if m.key == nil || m.key.KeyHash != hash {
		return nil, auth.ErrKeyNotFound
	}
	return m.key, nil
}

type mockNotifier struct {
	contacts []*contact.Message
}

func (m *mockNotifier) ContactReceived(msg *contact.Message) {
	m.contacts = append(m.contacts, msg)
}

func (m *mockNotifier) OrderSubmitted(_ *order.Order) {}

// --- Helpers ---

type testEnv struct {
	handler  *Handler
	server   *httptest.Server
	orders   *mockOrderRepo
	refs     *mockReferralRepo
	contacts *mockContactRepo
	notifier *mockNotifier
}

const testPepper = "test-pepper"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	orders := &mockOrderRepo{}
	refs := newMockReferralRepo()
	contacts := &mockContactRepo{}
	notifier := &mockNotifier{}

	refSvc := referral.NewService(refs, referral.DefaultBonus)
	orderSvc := order.NewService(
		orders, refSvc,
		payment.NewTrustingVerifier(zap.NewNop()),
		notifier,
		cart.DefaultMinimumOrderPolicy(),
		0,
	)

	apikeys := &mockAPIKeyRepo{key: &auth.APIKey{
		ID:      "key-1",
		KeyHash: auth.HashKey("admin-secret", testPepper),
		Name:    "test-key",
		Scopes:  []string{auth.ScopeAdmin},
	}}

	products := &mockProductRepo{products: []catalog.Product{
		{ID: "kids-1", Name: "Kids Tracksuit 1", Category: cart.CategoryKids, Price: decimal.NewFromInt(10)},
		{ID: "mens-1", Name: "Mens Tracksuit 1", Category: cart.CategoryMens, Price: decimal.NewFromInt(10)},
	}}

	h, err := NewHandler(
		noop.NewMeterProvider().Meter("test"),
		products, orderSvc, orders, refSvc, refs, contacts, notifier,
		apikeys, []byte(testPepper),
	)
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Register(mux, nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{
		handler:  h,
		server:   srv,
		orders:   orders,
		refs:     refs,
		contacts: contacts,
		notifier: notifier,
	}
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func validOrderBody() map[string]any {
	return map[string]any{
		"name":            "Thandi M",
		"email":           "thandi@example.com",
		"whatsapp":        "+27820000000",
		"deliveryAddress": "12 Long Street, Cape Town",
		"paymentId":       "PAY-123",
		"cartItems": []map[string]any{
			{"itemId": "kids-1", "itemName": "Kids Tracksuit 1", "category": "kids", "quantity": 2, "price": "10"},
			{"itemId": "mens-1", "itemName": "Mens Tracksuit 1", "category": "mens", "quantity": 1, "price": "10"},
		},
	}
}

// --- Tests ---

func TestSubmitOrder(t *testing.T) {
	t.Run("valid order returns id", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.post(t, "/api/orders", validOrderBody())
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeInto[orderResponse](t, resp)
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.ID)
		require.Len(t, env.orders.orders, 1)
		assert.Equal(t, "thandi@example.com", env.orders.orders[0].CustomerEmail)
	})

	t.Run("below minimum quantity returns 400 with rule", func(t *testing.T) {
		env := newTestEnv(t)

		body := validOrderBody()
		body["cartItems"] = []map[string]any{
			{"itemId": "kids-1", "itemName": "Kids Tracksuit 1", "category": "kids", "quantity": 2, "price": "10"},
		}

		resp := env.post(t, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		errBody := decodeInto[errorResponse](t, resp)
		assert.Equal(t, "min_quantity", errBody.Rule)
		assert.Empty(t, env.orders.orders, "rejected order must not be persisted")
	})

	t.Run("missing field returns 400 with rule", func(t *testing.T) {
		env := newTestEnv(t)

		body := validOrderBody()
		body["deliveryAddress"] = ""

		resp := env.post(t, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		errBody := decodeInto[errorResponse](t, resp)
		assert.Equal(t, "required_fields", errBody.Rule)
	})

	t.Run("malformed body returns 400 with its own rule", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := http.Post(env.server.URL+"/api/orders", "application/json",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		// Decode failures must not masquerade as a field validation rule.
		errBody := decodeInto[errorResponse](t, resp)
		assert.Equal(t, "invalid_body", errBody.Rule)
	})

	t.Run("persistence failure returns 500", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.err = fmt.Errorf("db down")

		resp := env.post(t, "/api/orders", validOrderBody())
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		errBody := decodeInto[errorResponse](t, resp)
		assert.NotContains(t, errBody.Error, "db down", "internals must not leak")
	})

	t.Run("referral code credits the ledger", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.refs.Create(context.Background(), &referral.Record{
			Code: "ABCD1234", ReferrerEmail: "ref@example.com", ReferrerName: "Ref",
		})
		require.NoError(t, err)

		body := validOrderBody()
		body["referralCode"] = "ABCD1234"

		resp := env.post(t, "/api/orders", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		stored, err := env.refs.FindByCode(context.Background(), "ABCD1234")
		require.NoError(t, err)
		assert.Len(t, stored.CompletedOrders, 1)
		assert.True(t, stored.TotalEarnings.Equal(referral.DefaultBonus))
	})
}

func TestIssueReferral(t *testing.T) {
	t.Run("issues an 8-char code", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.post(t, "/api/referrals", map[string]string{
			"email": "Ref@Example.com",
			"name":  "Ref Erral",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeInto[referralResponse](t, resp)
		assert.True(t, body.Success)
		assert.Len(t, body.ReferralCode, referral.CodeLength)
		assert.NotEmpty(t, body.ID)
	})

	t.Run("invalid email returns 400", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.post(t, "/api/referrals", map[string]string{
			"email": "not-an-email",
			"name":  "Ref Erral",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		errBody := decodeInto[errorResponse](t, resp)
		assert.Equal(t, "invalid_email", errBody.Rule)
	})
}

func TestSubmitContact(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/contact", map[string]string{
		"name":    "Asker",
		"email":   "ASKER@Example.com",
		"message": "Do you ship to Durban?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeInto[contactResponse](t, resp)
	assert.True(t, body.Success)

	require.Len(t, env.contacts.messages, 1)
	assert.Equal(t, "asker@example.com", env.contacts.messages[0].Email)
	require.Len(t, env.notifier.contacts, 1, "contact message should be forwarded for notification")
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	products := decodeInto[[]productView](t, resp)
	require.Len(t, products, 2)
	assert.Equal(t, "kids-1", products[0].ID)
	assert.InDelta(t, 10.0, products[0].Price, 0.001)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/products/missing", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminAuth(t *testing.T) {
	t.Run("no token returns 401", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.get(t, "/api/admin/orders", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong token returns 401", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.get(t, "/api/admin/orders", "wrong-secret")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.get(t, "/api/admin/orders", "admin-secret")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAdminData(t *testing.T) {
	env := newTestEnv(t)

	// Seed one order through the public surface so the admin view reflects it.
	resp := env.post(t, "/api/orders", validOrderBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.get(t, "/api/admin/data", "admin-secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeInto[adminData](t, resp)
	require.Len(t, data.Orders, 1)
	assert.Equal(t, "30.00", data.Orders[0].TotalPrice)
	assert.Equal(t, "paid", data.Orders[0].Status)
}
