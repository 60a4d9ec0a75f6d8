// Command server runs the VortexCore API: the AI router proxy, payment
// initialization, virtual card issuance, and supporting endpoints.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/thefixer3x/vortexcore-api/docs"
	"github.com/thefixer3x/vortexcore-api/internal/config"
	httpapi "github.com/thefixer3x/vortexcore-api/internal/http"
	"github.com/thefixer3x/vortexcore-api/internal/observability"
	"github.com/thefixer3x/vortexcore-api/internal/repo"
	"github.com/thefixer3x/vortexcore-api/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// @title        VortexCore API
// @version      1.0
// @description  AI chat routing, payment initialization, and virtual card issuance.
// @BasePath     /
func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("opentelemetry setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("opentelemetry shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := httpapi.RegisterRoutes(r, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	if !cfg.PaymentsEnabled() {
		log.Warn().Msg("payment gateway not configured; payment endpoints disabled")
	}
	if cfg.StripeKey == "" {
		log.Warn().Msg("stripe not configured; virtual card issuance disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("vortexcore api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
