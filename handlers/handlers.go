package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"pricescout/models"
	"pricescout/repository"
	"pricescout/scraper"
)

// searchResultLimit caps how many results a search request returns.
const searchResultLimit = 10

type Handlers struct {
	repo    *repository.ProductRepository
	service *scraper.Service
	log     zerolog.Logger
}

func NewHandlers(repo *repository.ProductRepository, service *scraper.Service, log zerolog.Logger) *Handlers {
	return &Handlers{repo: repo, service: service, log: log}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search runs a product search on one of the supported sites.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Site == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "Both 'site' and 'query' are required")
		return
	}

	results, err := h.service.SearchSite(r.Context(), req.Site, req.Query, searchResultLimit)
	if err != nil {
		h.writeScrapeError(w, err)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, http.StatusOK, models.SearchResponse{
		Query:   req.Query,
		Site:    req.Site,
		Results: results,
	})
}

// TrackProduct starts tracking a product URL.
func (h *Handlers) TrackProduct(w http.ResponseWriter, r *http.Request) {
	var req models.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	site, ok := scraper.ResolveSite(req.URL)
	if !ok {
		h.writeScrapeError(w, &scraper.UnsupportedSiteError{URL: req.URL})
		return
	}

	existing, err := h.repo.GetByURL(req.URL)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to look up product")
		writeError(w, http.StatusInternalServerError, "Failed to look up product")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Product is already being tracked")
		return
	}

	rec, err := h.service.FetchProductDetails(r.Context(), req.URL)
	if err != nil {
		h.writeScrapeError(w, err)
		return
	}

	product, err := h.repo.Add(req.URL, rec.Name, string(site), rec)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to save product")
		writeError(w, http.StatusInternalServerError, "Failed to save product")
		return
	}

	if err := h.repo.AddHistory(product.ID, rec); err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to record initial price history")
	}

	writeJSON(w, http.StatusCreated, product)
}

// ListProducts returns all tracked products.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetTracked()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list products")
		writeError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one tracked product by ID.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct stops tracking a product. Its history is kept.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	if err := h.repo.StopTracking(product.ID); err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to stop tracking")
		writeError(w, http.StatusInternalServerError, "Failed to stop tracking")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product tracking stopped"})
}

// GetHistory returns a product's price history, newest first.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	history, err := h.repo.GetHistory(product.ID)
	if err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to load price history")
		writeError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}
	if history == nil {
		history = []*models.PriceHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

// SetAlert configures a target-price alert on a product.
func (h *Handlers) SetAlert(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	var req models.AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TargetPrice <= 0 {
		writeError(w, http.StatusBadRequest, "target_price must be positive")
		return
	}

	if err := h.repo.SetAlert(product.ID, req.TargetPrice); err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to set alert")
		writeError(w, http.StatusInternalServerError, "Failed to set alert")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Alert set"})
}

// ClearAlert removes a product's price alert.
func (h *Handlers) ClearAlert(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	if err := h.repo.ClearAlert(product.ID); err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to clear alert")
		writeError(w, http.StatusInternalServerError, "Failed to clear alert")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Alert cleared"})
}

// CheckNow re-checks a single product's price immediately.
func (h *Handlers) CheckNow(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromPath(w, r)
	if !ok {
		return
	}

	rec, err := h.service.FetchProductDetails(r.Context(), product.URL)
	if err != nil {
		h.writeScrapeError(w, err)
		return
	}

	priceChanged := !product.HasPrice() || product.GetLastKnownPrice() != rec.Price
	if err := h.repo.UpdatePrice(product.ID, rec); err != nil {
		h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to update price")
		writeError(w, http.StatusInternalServerError, "Failed to update price")
		return
	}
	if priceChanged {
		if err := h.repo.AddHistory(product.ID, rec); err != nil {
			h.log.Error().Err(err).Int64("product_id", product.ID).Msg("Failed to record price history")
		}
	}

	updated, err := h.repo.GetByID(product.ID)
	if err != nil || updated == nil {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// productFromPath resolves the {id} path variable to an existing product,
// writing the error response itself when that fails.
func (h *Handlers) productFromPath(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return nil, false
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Int64("product_id", id).Msg("Failed to load product")
		writeError(w, http.StatusInternalServerError, "Failed to load product")
		return nil, false
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return nil, false
	}
	return product, true
}

// writeScrapeError maps extraction errors to HTTP responses.
func (h *Handlers) writeScrapeError(w http.ResponseWriter, err error) {
	var (
		unsupported *scraper.UnsupportedSiteError
		pageLoad    *scraper.PageLoadError
		noPrice     *scraper.PriceNotFoundError
		noSearch    *scraper.SearchUnavailableError
		connect     *scraper.ConnectivityError
		timeout     *scraper.TimeoutError
		status      *scraper.RemoteStatusError
	)

	switch {
	case errors.As(err, &unsupported), errors.As(err, &pageLoad),
		errors.As(err, &noPrice), errors.As(err, &noSearch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &connect), errors.As(err, &status):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &timeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		h.log.Error().Err(err).Msg("Unexpected scrape error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
