package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aled/logistics-sandbox/internal/aggregate"
	"github.com/aled/logistics-sandbox/internal/api"
	"github.com/aled/logistics-sandbox/internal/config"
	"github.com/aled/logistics-sandbox/internal/erp"
	"github.com/aled/logistics-sandbox/internal/repository/postgres"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/aled/logistics-sandbox/internal/store"
	"github.com/aled/logistics-sandbox/internal/token"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Environment == "development" {
		log = log.Level(zerolog.DebugLevel)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories and the ERP client
	repos := postgres.NewRepositories(db)
	erpClient := erp.NewHTTPClient(cfg.ERPBaseURL)

	// Initialize core components
	sessionStore := store.New(repos.Demo, erpClient, cfg.ERPAdminToken, log)
	codec := token.NewCodec(cfg.JWTSecret)
	engine := aggregate.New(cfg.AggregationTimeout)

	// Initialize services and router
	services := service.NewServices(sessionStore, erpClient, codec, engine, log)
	router := api.NewRouter(services, cfg, log)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
