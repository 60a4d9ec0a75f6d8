// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/cache"
	"github.com/thefixer3x/vortexcore-api/internal/config"
	"github.com/thefixer3x/vortexcore-api/internal/gateway"
	"github.com/thefixer3x/vortexcore-api/internal/http/handlers"
	"github.com/thefixer3x/vortexcore-api/internal/http/middleware"
	"github.com/thefixer3x/vortexcore-api/internal/providers"
	"github.com/thefixer3x/vortexcore-api/internal/services"
	"github.com/thefixer3x/vortexcore-api/internal/sign"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing (payments carry emails)
//  4. Recovery: capture panics after logger
//  5. Body size limiter + gzip (streams excluded)
//  6. Metrics
//  7. Bearer auth (optional, anonymous passthrough)
//  8. CORS and Security headers
//
// The fixed-window rate limiter is mounted on the payment initialize route
// only; it exists to bound gateway spend, not general traffic.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			gateway.SignatureHeader, // never log payment signatures
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and compression. The AI router is
	// excluded from gzip: compressing an SSE relay defeats chunk flushing.
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{joinBase(cfg.APIBasePath, "/ai-router")})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Optional bearer auth (Supabase HS256 tokens)
	r.Use(middleware.BearerAuth(cfg.JWTSecret))

	// 8) CORS posture (safe defaults: allow all if none configured).
	// Preflight OPTIONS requests short-circuit here, before any handler.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", gateway.SignatureHeader},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", gateway.SignatureHeader},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", handlers.Health)

	// Swagger UI (dev/staging only)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: providers ← config, services ← providers/gateway/db
	realtimeCache := cache.NewResponseCache(cfg.RealtimeCacheTTL)
	perplexity := providers.NewPerplexity(cfg.Providers.PerplexityKey, realtimeCache, cfg.ProviderRPS, cfg.ProviderBurst, nil)
	router := providers.NewRouter(perplexity,
		providers.NewOpenAI(cfg.Providers.OpenAIKey, nil),
		providers.NewGemini(cfg.Providers.GeminiKey),
	)
	chatSvc := &services.ChatService{Router: router, MaxTurns: 50}

	var paySvc handlers.PaymentInitializer
	if cfg.PaymentsEnabled() {
		signer, err := sign.NewSigner(cfg.Gateway.SecretKey)
		if err != nil {
			return err
		}
		paySvc = &services.PaymentService{
			DB:              db,
			Gateway:         gateway.NewClient(cfg.Gateway.BaseURL, signer, nil),
			DefaultCallback: cfg.DefaultCallback,
		}
	}
	cardSvc := services.NewCardService(db, cfg.StripeKey)

	h := handlers.New(chatSvc, paySvc, cardSvc, db, cfg.PaymentMaxBody)

	payLimiter := middleware.NewFixedWindowLimiter(cfg.RateWindow, cfg.RateMax, middleware.KeyByForwardedIP())

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// AI router
		api.POST("/ai-router", h.Chat)

		// Payments
		if cfg.PaymentsEnabled() {
			api.POST("/payments/initialize", payLimiter.Handler(), h.InitializePayment)
			api.GET("/payments/transactions", h.ListTransactions)
			api.GET("/payments/transactions/:reference", h.GetTransaction)
			api.POST("/payments/webhook", h.PaymentWebhook)
		}

		// Virtual cards (require an authenticated user)
		cards := api.Group("/cards", middleware.RequireUser())
		{
			cards.POST("", h.IssueCard)
			cards.GET("", h.ListCards)
		}
	}

	return nil
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinBase prepends the API base path to a route (for path-keyed middleware
// options that need the full mounted path).
func joinBase(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	return base + route
}
