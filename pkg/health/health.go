// Package health provides Kubernetes-style liveness and readiness probes.
// Registered checks run on background tickers with failure and success
// thresholds so a single blip does not flip the reported state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. It returns nil when the component is
// healthy.
type CheckFunc func(ctx context.Context) error

const (
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 1
)

// check holds one probe and its runtime state. The consecutive counters are
// touched only by the single run goroutine; healthy and lastErr are shared
// with the HTTP handlers through atomics.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func newCheck(name string, timeout time.Duration, fn CheckFunc) *check {
	c := &check{name: name, timeout: timeout, fn: fn}
	c.healthy.Store(true)
	return c
}

func (c *check) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(probeCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.oks = 0
		if c.fails++; c.fails >= defaultFailureThreshold {
			c.healthy.Store(false)
		}
		return
	}

	c.fails = 0
	if c.oks++; c.oks >= defaultSuccessThreshold {
		c.healthy.Store(true)
	}
}

// Health manages the liveness and readiness state of a service.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates a Health starting in the not-ready state. Call SetReady(true)
// once initialization finishes.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a probe for /livez.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newCheck(name, timeout, fn))
}

// AddReadinessCheck registers a probe for /readyz.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, newCheck(name, timeout, fn))
}

// Start runs every registered check on its own ticker until Stop or context
// cancellation. Register all checks before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := make([]*check, 0, len(h.liveness)+len(h.readiness))
	checks = append(checks, h.liveness...)
	checks = append(checks, h.readiness...)
	h.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background check goroutines. Safe to call repeatedly.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Set false during graceful
// shutdown to drain traffic before the listener closes.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}

	h.mu.RLock()
	checks := h.readiness
	h.mu.RUnlock()

	for _, c := range checks {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 when all liveness checks pass, 503 with
// per-check failures otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make([]*check, len(h.liveness))
	copy(checks, h.liveness)
	h.mu.RUnlock()

	writeStatus(w, failures(checks))
}

// ReadyEndpoint serves /readyz: 200 only when the service is marked ready and
// all readiness checks pass.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	ready := h.ready.Load()

	h.mu.RLock()
	checks := make([]*check, len(h.readiness))
	copy(checks, h.readiness)
	h.mu.RUnlock()

	failed := failures(checks)
	if !ready {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func failures(checks []*check) map[string]string {
	failed := make(map[string]string)
	for _, c := range checks {
		if c.healthy.Load() {
			continue
		}
		msg := "check is unhealthy"
		if p := c.lastErr.Load(); p != nil && *p != nil {
			msg = (*p).Error()
		}
		failed[c.name] = msg
	}
	return failed
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failed) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: failed}
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
