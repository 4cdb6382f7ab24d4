// Command server runs the CoffeeBridge market backend: an HTTP API for
// farmer and roaster profiles backed by a document store.
//
//	@title			CoffeeBridge Market API
//	@version		1.0
//	@description	Backend for the CoffeeBridge coffee marketplace: farmer and roaster profiles with search and pagination, plus a payment-intent stub.
//	@BasePath		/api
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

	"github.com/coffeebridge/go-market-backend/internal/config"
	httpapi "github.com/coffeebridge/go-market-backend/internal/http"
	"github.com/coffeebridge/go-market-backend/internal/observability"
	"github.com/coffeebridge/go-market-backend/internal/store"
	"github.com/coffeebridge/go-market-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	mgr := store.NewManager(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)

	// Fail fast when the store is unreachable at boot; the manager still
	// reconnects lazily if the store drops later.
	{
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
		ok := mgr.Ping(pingCtx)
		cancel()
		if !ok {
			log.Warn().Str("db", cfg.Mongo.Database).Msg("document store not reachable at startup")
		}
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, mgr, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := mgr.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store disconnect failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}

	log.Info().Msg("bye")
}
