package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"pricescout/config"
	"pricescout/models"
)

// Service coordinates extraction: it resolves the site handler for a URL,
// opens the page through the configured fetcher and runs the cascade.
// Transport failures arrive already typed from the fetcher and pass through
// untouched, except in offline mode where connectivity failures are replaced
// with synthetic data.
type Service struct {
	fetcher Fetcher
	cfg     *config.ScraperConfig
	log     zerolog.Logger
}

// NewService creates an extraction service over the given page fetcher.
func NewService(fetcher Fetcher, cfg *config.ScraperConfig, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cfg:     cfg,
		log:     log.With().Str("component", "scraper").Logger(),
	}
}

// FetchProductDetails extracts a product record from a product page URL.
func (s *Service) FetchProductDetails(ctx context.Context, rawURL string) (*models.ProductRecord, error) {
	site, ok := ResolveSite(rawURL)
	if !ok {
		return nil, &UnsupportedSiteError{URL: rawURL}
	}

	page, err := s.fetcher.Open(ctx, rawURL)
	if err != nil {
		if s.cfg.OfflineMode && isConnectivity(err) {
			s.log.Warn().Str("url", rawURL).Err(err).
				Msg("site unreachable, substituting synthetic product data")
			return syntheticProduct(rawURL), nil
		}
		return nil, err
	}
	defer page.Close()

	record, err := extractProduct(page, profiles[site], s.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("site", string(site)).Str("name", record.Name).
		Float64("price", record.Price).Bool("on_sale", record.IsOnSale).
		Msg("fetched product details")
	return record, nil
}

// SearchSite searches an e-commerce site by tag and returns up to limit
// results. A negative limit is clamped to 0; a 0 limit returns an empty list
// without touching the network.
func (s *Service) SearchSite(ctx context.Context, siteTag, query string, limit int) ([]models.SearchResult, error) {
	site, ok := SiteByTag(siteTag)
	if !ok {
		return nil, &UnsupportedSiteError{Site: siteTag}
	}
	if limit <= 0 {
		return []models.SearchResult{}, nil
	}

	p := profiles[site]
	searchURL := fmt.Sprintf(p.searchURL, url.QueryEscape(query))

	page, err := s.fetcher.Open(ctx, searchURL)
	if err != nil {
		if s.cfg.OfflineMode && isConnectivity(err) {
			s.log.Warn().Str("site", siteTag).Str("query", query).Err(err).
				Msg("site unreachable, substituting synthetic search results")
			return syntheticResults(query, limit), nil
		}
		return nil, err
	}
	defer page.Close()

	results, err := extractResults(page, p, limit, s.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("site", siteTag).Str("query", query).
		Int("results", len(results)).Msg("search completed")
	return results, nil
}

// Offline fallback only fires for connectivity-class failures. Timeouts,
// HTTP status errors and parse failures always propagate so real extraction
// bugs are never masked as "offline mode".
func isConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

func syntheticProduct(rawURL string) *models.ProductRecord {
	slug := strings.TrimSuffix(rawURL, "/")
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	if slug == "" {
		slug = "unknown"
	}
	return &models.ProductRecord{
		Name:      "Sample Product - " + slug,
		Price:     12999.00,
		Synthetic: true,
	}
}

func syntheticResults(query string, limit int) []models.SearchResult {
	count := 5
	if limit < count {
		count = limit
	}
	results := make([]models.SearchResult, 0, count)
	for i := 0; i < count; i++ {
		price := 999.99 + float64(i)*100
		result := models.SearchResult{
			Name:       fmt.Sprintf("%s - Sample %d", query, i+1),
			Price:      price,
			ProductURL: fmt.Sprintf("https://www.alza.cz/sample-product-%d", i+1),
			ImageURL:   fmt.Sprintf("https://cdn.alza.cz/sample-image-%d.jpg", i+1),
			Synthetic:  true,
		}
		if i%2 == 0 {
			original := price + 200
			result.IsOnSale = true
			result.OriginalPrice = &original
		}
		results = append(results, result)
	}
	return results
}
