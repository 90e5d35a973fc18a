package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr           string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL    string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	AdminKeyPepper string `usage:"HMAC pepper for admin API key hashing" flag:"admin-key-pepper"`

	Order     OrderConfig
	Referral  ReferralConfig
	PayPal    PayPalConfig
	Resend    ResendConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// OrderConfig controls order acceptance.
type OrderConfig struct {
	MinQuantity   int           `default:"3"  usage:"Minimum number of items per order" flag:"min-order-quantity"`
	MinAmount     int           `default:"30" usage:"Minimum order total in dollars" flag:"min-order-amount"`
	SubmitTimeout time.Duration `default:"8s" usage:"Deadline for persisting one order" flag:"submit-timeout"`
}

// ReferralConfig controls the referral ledger.
type ReferralConfig struct {
	Bonus int `default:"100" usage:"Dollars credited per completed referred order" flag:"referral-bonus"`
}

// PayPalConfig enables provider-side payment verification when all fields are
// set. Left empty, submitted payment ids are accepted as-is.
type PayPalConfig struct {
	BaseURL  string `usage:"PayPal API base URL (e.g. https://api-m.paypal.com)" flag:"paypal-base-url"`
	ClientID string `usage:"PayPal REST client id" flag:"paypal-client-id"`
	Secret   string `usage:"PayPal REST secret" flag:"paypal-secret"`
}

// Enabled reports whether verification is fully configured.
func (c PayPalConfig) Enabled() bool {
	return c.BaseURL != "" && c.ClientID != "" && c.Secret != ""
}

// ResendConfig enables admin email notifications when APIKey is set.
type ResendConfig struct {
	BaseURL    string `default:"https://api.resend.com" usage:"Resend API base URL" flag:"resend-base-url"`
	APIKey     string `usage:"Resend API key" flag:"resend-api-key"`
	From       string `default:"store@tracksuit.example" usage:"Notification sender address" flag:"notify-from"`
	AdminEmail string `usage:"Address receiving order and contact notifications" flag:"admin-email"`
	Buffer     int    `default:"64" usage:"Notification queue capacity" flag:"notify-buffer"`
}

// RateLimitConfig controls the per-client sliding window rate limiters. Order
// submission gets its own, stricter budget.
type RateLimitConfig struct {
	Max          int           `default:"100" usage:"Max requests per window"`
	Window       time.Duration `default:"1m"  usage:"Rate limit window duration"`
	SubmitMax    int           `default:"5"   usage:"Max order submissions per window" flag:"submit-max"`
	SubmitWindow time.Duration `default:"1m"  usage:"Order submission window duration" flag:"submit-window"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform-provided defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/tracksuit-store/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// onto the STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
