package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// Pinger is satisfied by pgxpool.Pool and friends.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabasePingCheck returns a readiness CheckFunc that pings the database.
func DatabasePingCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return errors.Wrap(err, "database ping")
		}
		return nil
	}
}

// GoroutineCountCheck returns a liveness CheckFunc that fails when the
// goroutine count exceeds threshold, catching slow leaks before the OOM
// killer does.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}
