// Package app wires configuration, storage, domain services, and the HTTP
// server into a running process.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/api"
	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/domain/payment"
	"github.com/solkim/tracksuit-store/internal/domain/referral"
	"github.com/solkim/tracksuit-store/internal/notify"
	"github.com/solkim/tracksuit-store/internal/storage/postgres"
	"github.com/solkim/tracksuit-store/pkg/health"
	"github.com/solkim/tracksuit-store/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabasePingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	referralRepo := postgres.NewReferralRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)

	// Notification worker.
	var sender notify.Sender = logSender{}
	if cfg.Resend.APIKey != "" && cfg.Resend.AdminEmail != "" {
		sender = notify.NewResendSender(cfg.Resend.BaseURL, cfg.Resend.APIKey, cfg.Resend.From, cfg.Resend.AdminEmail)
	} else {
		lg.Warn("notifications disabled: Resend key or admin email not configured")
	}
	worker := notify.NewWorker(sender, lg.Named("notify"), cfg.Resend.Buffer)
	worker.Start(ctx)
	notifier := &workerNotifier{worker: worker}

	// Payment verification.
	var verifier payment.Verifier = payment.NewTrustingVerifier(lg.Named("payment"))
	if cfg.PayPal.Enabled() {
		verifier = payment.NewPayPalVerifier(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.Secret)
		lg.Info("PayPal payment verification enabled")
	}

	// Domain services.
	referralSvc := referral.NewService(referralRepo, decimal.NewFromInt(int64(cfg.Referral.Bonus)))
	orderSvc := order.NewService(
		orderRepo,
		referralSvc,
		verifier,
		notifier,
		cart.MinimumOrderPolicy{
			MinQuantity: cfg.Order.MinQuantity,
			MinAmount:   decimal.NewFromInt(int64(cfg.Order.MinAmount)),
		},
		cfg.Order.SubmitTimeout,
	)

	// HTTP handlers.
	h, err := api.NewHandler(
		m.MeterProvider().Meter("tracksuit-store"),
		productRepo,
		orderSvc,
		orderRepo,
		referralSvc,
		referralRepo,
		contactRepo,
		notifier,
		apikeyRepo,
		[]byte(cfg.AdminKeyPepper),
	)
	if err != nil {
		return errors.Wrap(err, "create api handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux, httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
		Max:    cfg.RateLimit.SubmitMax,
		Window: cfg.RateLimit.SubmitWindow,
	}))

	instrumented := otelhttp.NewHandler(mux, "tracksuit-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type", "Authorization"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: drop readiness, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		worker.Wait()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
