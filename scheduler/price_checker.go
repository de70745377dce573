package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pricescout/models"
	"pricescout/repository"
	"pricescout/scraper"
)

// PriceChecker periodically re-checks tracked products and records
// price history when a price changes.
type PriceChecker struct {
	cron     *cron.Cron
	repo     *repository.ProductRepository
	service  *scraper.Service
	interval time.Duration
	log      zerolog.Logger
}

func NewPriceChecker(repo *repository.ProductRepository, service *scraper.Service, interval time.Duration, log zerolog.Logger) *PriceChecker {
	return &PriceChecker{
		cron:     cron.New(),
		repo:     repo,
		service:  service,
		interval: interval,
		log:      log.With().Str("component", "price_checker").Logger(),
	}
}

// Start schedules the periodic check and runs one pass immediately.
func (pc *PriceChecker) Start() error {
	spec := fmt.Sprintf("@every %s", pc.interval)
	if _, err := pc.cron.AddFunc(spec, pc.CheckAll); err != nil {
		return fmt.Errorf("failed to schedule price checks: %v", err)
	}
	pc.cron.Start()
	pc.log.Info().Str("interval", pc.interval.String()).Msg("Price checker started")

	go pc.CheckAll()
	return nil
}

// Stop halts the scheduler. Running checks finish on their own.
func (pc *PriceChecker) Stop() {
	pc.cron.Stop()
	pc.log.Info().Msg("Price checker stopped")
}

// CheckAll re-checks every tracked product sequentially.
func (pc *PriceChecker) CheckAll() {
	products, err := pc.repo.GetTracked()
	if err != nil {
		pc.log.Error().Err(err).Msg("Failed to load tracked products")
		return
	}
	if len(products) == 0 {
		return
	}

	pc.log.Info().Int("count", len(products)).Msg("Checking tracked products")
	for _, product := range products {
		if err := pc.CheckProduct(product); err != nil {
			pc.log.Warn().Err(err).Int64("product_id", product.ID).Str("url", product.URL).Msg("Price check failed")
		}
	}
}

// CheckProduct fetches the current price for one product and persists the
// outcome. A history row is added only when the price actually changed.
func (pc *PriceChecker) CheckProduct(product *models.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rec, err := pc.service.FetchProductDetails(ctx, product.URL)
	if err != nil {
		if touchErr := pc.repo.TouchCheckTime(product.ID, time.Now()); touchErr != nil {
			pc.log.Error().Err(touchErr).Int64("product_id", product.ID).Msg("Failed to update check time")
		}
		return err
	}

	priceChanged := !product.HasPrice() || product.GetLastKnownPrice() != rec.Price

	if err := pc.repo.UpdatePrice(product.ID, rec); err != nil {
		return err
	}

	if priceChanged {
		if err := pc.repo.AddHistory(product.ID, rec); err != nil {
			return err
		}
		pc.log.Info().
			Int64("product_id", product.ID).
			Float64("old_price", product.GetLastKnownPrice()).
			Float64("new_price", rec.Price).
			Msg("Price changed")
	}

	pc.checkAlert(product, rec)
	return nil
}

// checkAlert fires the product's alert once when the price drops to or
// below the target.
func (pc *PriceChecker) checkAlert(product *models.Product, rec *models.ProductRecord) {
	if !product.HasAlert() || product.AlertTriggered {
		return
	}
	if rec.Price > product.AlertPrice.Float64 {
		return
	}

	if err := pc.repo.MarkAlertTriggered(product.ID); err != nil {
		pc.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to mark alert triggered")
		return
	}
	pc.log.Info().
		Int64("product_id", product.ID).
		Str("name", product.Name).
		Float64("price", rec.Price).
		Float64("target", product.AlertPrice.Float64).
		Msg("Price alert triggered")
}
