package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"sebodigital/internal/catalog"
	"sebodigital/internal/clients"
	"sebodigital/internal/config"
	"sebodigital/internal/database"
	"sebodigital/internal/inventory"
	"sebodigital/internal/orders"
	"sebodigital/internal/sales"
	"sebodigital/internal/server"
	"sebodigital/internal/settings"
	"sebodigital/internal/telemetry"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("app", cfg.AppName).Msg("Application starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.AppName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	marketplace := clients.NewEstanteVirtualClient(cfg.MarketplaceBaseURL, cfg.MarketplaceToken, cfg.ClientTimeout)
	isbnLookup := clients.NewISBNClient(cfg.ISBNLookupBaseURL, cfg.ClientTimeout)

	catalogRepo := catalog.NewPostgresRepository(db.SQL)
	inventoryRepo := inventory.NewPostgresRepository(db.SQL)
	salesRepo := sales.NewPostgresRepository(db.SQL)
	ordersRepo := orders.NewPostgresRepository(db.SQL)
	settingsRepo := settings.NewPostgresRepository(db.SQL)

	catalogSvc := catalog.NewService(catalogRepo, isbnLookup)
	inventorySvc := inventory.NewService(inventoryRepo, catalogRepo, catalogRepo, marketplace)
	salesSvc := sales.NewService(salesRepo, catalogRepo, inventoryRepo)
	ordersSvc := orders.NewService(ordersRepo, marketplace, marketplace)
	settingsSvc := settings.NewService(settingsRepo)

	router := server.NewRouter(server.Handlers{
		Catalog:   catalog.NewHandler(catalogSvc),
		Inventory: inventory.NewHandler(inventorySvc),
		Sales:     sales.NewHandler(salesSvc),
		Orders:    orders.NewHandler(ordersSvc),
		Settings:  settings.NewHandler(settingsSvc),
	}, rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
