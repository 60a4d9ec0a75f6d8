// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, AI provider credentials, the payment
// gateway, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "vortexcore")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ProvidersConfig carries API keys for the chat providers tried by the AI
// router. Any key may be empty; the router skips unconfigured providers.
type ProvidersConfig struct {
	OpenAIKey     string // OPENAI_API_KEY
	GeminiKey     string // GEMINI_API_KEY
	PerplexityKey string // PERPLEXITY_API_KEY
}

// GatewayConfig defines the SaySwitch payment gateway connection.
type GatewayConfig struct {
	BaseURL   string // SAYSWITCH_BASE_URL
	SecretKey string // SAYSWITCH_SECRET_KEY (signing key; required for payments)
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath string // SQLite path

	// AI providers
	Providers        ProvidersConfig
	RealtimeCacheTTL time.Duration // REALTIME_CACHE_TTL: Perplexity response cache lifetime
	ProviderRPS      float64       // PROVIDER_RPS: outbound throttle for the realtime provider
	ProviderBurst    int           // PROVIDER_BURST

	// Payments
	Gateway         GatewayConfig
	DefaultCallback string // PAYMENT_CALLBACK_URL: used when a request omits its own
	PaymentMaxBody  int64  // PAYMENT_MAX_BODY: content-length ceiling in bytes

	// Stripe Issuing (virtual cards)
	StripeKey string // STRIPE_SECRET_KEY (feature disabled when empty)

	// Auth
	JWTSecret string // SUPABASE_JWT_SECRET (optional bearer verification)

	// Rate limiting (fixed window, per client IP)
	RateWindow time.Duration // RATE_WINDOW
	RateMax    int           // RATE_MAX

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// PaymentsEnabled reports whether any part of the payment gateway is
// configured. Load rejects half-configured gateways, so after a successful
// Load this implies both base URL and secret are present.
func (c Config) PaymentsEnabled() bool {
	return strings.TrimSpace(c.Gateway.BaseURL) != "" || strings.TrimSpace(c.Gateway.SecretKey) != ""
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/")),

		// App
		DBPath: getenv("DB_PATH", "vortexcore.db"),

		// AI providers
		Providers: ProvidersConfig{
			OpenAIKey:     getenv("OPENAI_API_KEY", ""),
			GeminiKey:     getenv("GEMINI_API_KEY", ""),
			PerplexityKey: getenv("PERPLEXITY_API_KEY", ""),
		},
		RealtimeCacheTTL: getdur("REALTIME_CACHE_TTL", 30*time.Second),
		ProviderRPS:      getfloat("PROVIDER_RPS", 2.0),
		ProviderBurst:    getint("PROVIDER_BURST", 4),

		// Payments
		Gateway: GatewayConfig{
			BaseURL:   strings.TrimRight(getenv("SAYSWITCH_BASE_URL", ""), "/"),
			SecretKey: getenv("SAYSWITCH_SECRET_KEY", ""),
		},
		DefaultCallback: getenv("PAYMENT_CALLBACK_URL", "https://vortexcore.app/payment/callback"),
		PaymentMaxBody:  int64(getint("PAYMENT_MAX_BODY", 100<<10)),

		// Stripe Issuing
		StripeKey: getenv("STRIPE_SECRET_KEY", ""),

		// Auth
		JWTSecret: getenv("SUPABASE_JWT_SECRET", ""),

		// Rate limiting
		RateWindow: getdur("RATE_WINDOW", 60*time.Second),
		RateMax:    getint("RATE_MAX", 100),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "vortexcore"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RealtimeCacheTTL <= 0 {
		return cfg, errors.New("REALTIME_CACHE_TTL must be > 0")
	}
	if cfg.ProviderRPS < 0 {
		return cfg, errors.New("PROVIDER_RPS must be >= 0")
	}
	if cfg.ProviderBurst < 1 {
		return cfg, errors.New("PROVIDER_BURST must be >= 1")
	}
	if cfg.PaymentMaxBody <= 0 {
		return cfg, errors.New("PAYMENT_MAX_BODY must be > 0")
	}
	if cfg.RateWindow <= 0 {
		return cfg, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.RateMax < 1 {
		return cfg, errors.New("RATE_MAX must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	// A half-configured gateway is worse than none: fail fast instead of
	// signing with an empty secret or posting to an empty base URL.
	if cfg.PaymentsEnabled() {
		if strings.TrimSpace(cfg.Gateway.BaseURL) == "" {
			return cfg, errors.New("SAYSWITCH_BASE_URL is required when payments are configured")
		}
		if strings.TrimSpace(cfg.Gateway.SecretKey) == "" {
			return cfg, errors.New("SAYSWITCH_SECRET_KEY is required when payments are configured")
		}
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
