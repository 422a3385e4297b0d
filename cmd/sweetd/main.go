// Command sweetd runs an in-memory Sweet Shop API for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sweet-shop/config"
	"sweet-shop/controllers"
	"sweet-shop/routes"
	"sweet-shop/utils"
)

func main() {
	seed := flag.Bool("seed", true, "load a demo inventory at startup")
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	if cfg.Trace {
		shutdown, err := utils.InitTracing("sweetd", os.Stdout)
		if err != nil {
			logger.Fatal().Err(err).Msg("tracing setup failed")
		}
		defer shutdown(context.Background())
	}

	db := controllers.NewDB(cfg.AdminEmail)
	if *seed {
		db.Seed()
	}

	// Set up the router
	router := routes.NewRouter(db, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "sweetd"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	// Start the server
	logger.Info().Str("port", cfg.Port).Msg("Server is running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
