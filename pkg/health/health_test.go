package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")
}

func TestReadyEndpoint_ReadyAfterSetReady(t *testing.T) {
	h := New()
	h.SetReady(true)

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, h.IsReady())
}

func TestLiveEndpoint_HealthyByDefault(t *testing.T) {
	h := New()
	h.AddLivenessCheck("noop", time.Second, func(context.Context) error { return nil })

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheck_FailureThreshold(t *testing.T) {
	c := newCheck("flaky", time.Second, func(context.Context) error {
		return errors.New("down")
	})

	ctx := context.Background()
	c.run(ctx)
	c.run(ctx)
	assert.True(t, c.healthy.Load(), "two failures stay under the threshold")

	c.run(ctx)
	assert.False(t, c.healthy.Load(), "third consecutive failure trips the check")

	c.fn = func(context.Context) error { return nil }
	c.run(ctx)
	assert.True(t, c.healthy.Load(), "one success recovers")
}

func TestStart_RunsChecksUntilStopped(t *testing.T) {
	var calls atomic.Int32
	h := New()
	h.AddReadinessCheck("counter", time.Second, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestDatabasePingCheck(t *testing.T) {
	ok := DatabasePingCheck(pingerFunc(func(context.Context) error { return nil }))
	assert.NoError(t, ok(context.Background()))

	bad := DatabasePingCheck(pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))
	assert.Error(t, bad(context.Background()))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
