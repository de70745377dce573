package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pricescout/config"
	"pricescout/database"
	"pricescout/handlers"
	"pricescout/middleware"
	"pricescout/repository"
	"pricescout/scheduler"
	"pricescout/scraper"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := database.InitDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.CloseDatabase()

	if err := database.CreateTables(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create tables")
	}

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scraper backend")
	}
	defer fetcher.Close()

	repo := repository.NewProductRepository()
	service := scraper.NewService(fetcher, &cfg.Scraper, logger)

	checker := scheduler.NewPriceChecker(repo, service, cfg.CheckInterval, logger)
	if err := checker.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start price checker")
	}
	defer checker.Stop()

	h := handlers.NewHandlers(repo, service, logger)

	router := mux.NewRouter()
	router.Use(middleware.Logging(logger))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS))

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/search", h.Search).Methods("POST")
	router.HandleFunc("/track", h.TrackProduct).Methods("POST")
	router.HandleFunc("/track", h.ListProducts).Methods("GET")
	router.HandleFunc("/track/product/{id}", h.GetProduct).Methods("GET")
	router.HandleFunc("/track/product/{id}", h.DeleteProduct).Methods("DELETE")
	router.HandleFunc("/track/product/{id}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/track/product/{id}/alert", h.SetAlert).Methods("POST")
	router.HandleFunc("/track/product/{id}/alert", h.ClearAlert).Methods("DELETE")
	router.HandleFunc("/track/product/{id}/check", h.CheckNow).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

// newFetcher builds the page source selected by SCRAPER_BACKEND.
func newFetcher(cfg *config.Config, logger zerolog.Logger) (scraper.Fetcher, error) {
	switch cfg.Scraper.Backend {
	case "browser":
		return scraper.NewBrowser(&cfg.Scraper, logger)
	default:
		return scraper.NewStaticFetcher(&cfg.Scraper, logger), nil
	}
}
