package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// ProductRecord is the result of extracting a single product page. Records
// are built fresh per extraction call and carry no identity or persistence
// linkage.
type ProductRecord struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	IsOnSale bool    `json:"is_on_sale"`
	// OriginalPrice is the recovered pre-discount price, present only when a
	// strikethrough price was found.
	OriginalPrice *float64 `json:"original_price,omitempty"`
	// Synthetic marks offline-mode substitute data that never came from a
	// live page.
	Synthetic bool `json:"synthetic,omitempty"`
}

// SearchResult is one entry of a search-results listing.
type SearchResult struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	ProductURL    string   `json:"product_url"`
	ImageURL      string   `json:"image_url,omitempty"`
	IsOnSale      bool     `json:"is_on_sale"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Synthetic     bool     `json:"synthetic,omitempty"`
}

// Product represents a tracked product row.
type Product struct {
	ID             int64           `json:"id" db:"id"`
	URL            string          `json:"url" db:"url"`
	Name           string          `json:"name" db:"name"`
	Eshop          string          `json:"eshop" db:"eshop"`
	LastKnownPrice sql.NullFloat64 `json:"last_known_price" db:"last_known_price"`
	IsOnSale       bool            `json:"is_on_sale" db:"is_on_sale"`
	OriginalPrice  sql.NullFloat64 `json:"original_price" db:"original_price"`
	AlertPrice     sql.NullFloat64 `json:"alert_price" db:"alert_price"`
	AlertTriggered bool            `json:"alert_triggered" db:"alert_triggered"`
	IsTracked      bool            `json:"is_tracked" db:"is_tracked"`
	LastCheckTime  time.Time       `json:"last_check_time" db:"last_check_time"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// HasPrice returns true if the product has a known price.
func (p *Product) HasPrice() bool {
	return p.LastKnownPrice.Valid
}

// GetLastKnownPrice returns the last known price, or 0 if NULL.
func (p *Product) GetLastKnownPrice() float64 {
	if p.LastKnownPrice.Valid {
		return p.LastKnownPrice.Float64
	}
	return 0.0
}

// HasAlert returns true if a price alert is configured.
func (p *Product) HasAlert() bool {
	return p.AlertPrice.Valid
}

// MarshalJSON renders the nullable price columns as numbers or null.
func (p *Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		*Alias
		LastKnownPrice *float64 `json:"last_known_price"`
		OriginalPrice  *float64 `json:"original_price"`
		AlertPrice     *float64 `json:"alert_price"`
	}{
		Alias:          (*Alias)(p),
		LastKnownPrice: nullFloatPtr(p.LastKnownPrice),
		OriginalPrice:  nullFloatPtr(p.OriginalPrice),
		AlertPrice:     nullFloatPtr(p.AlertPrice),
	})
}

// PriceHistory represents a price point in time.
type PriceHistory struct {
	ID            int64           `json:"id" db:"id"`
	ProductID     int64           `json:"product_id" db:"product_id"`
	Price         float64         `json:"price" db:"price"`
	IsOnSale      bool            `json:"is_on_sale" db:"is_on_sale"`
	OriginalPrice sql.NullFloat64 `json:"original_price" db:"original_price"`
	CheckedAt     time.Time       `json:"checked_at" db:"checked_at"`
}

// MarshalJSON renders the nullable original price as a number or null.
func (h *PriceHistory) MarshalJSON() ([]byte, error) {
	type Alias PriceHistory
	return json.Marshal(&struct {
		*Alias
		OriginalPrice *float64 `json:"original_price"`
	}{
		Alias:         (*Alias)(h),
		OriginalPrice: nullFloatPtr(h.OriginalPrice),
	})
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if v.Valid {
		value := v.Float64
		return &value
	}
	return nil
}

// TrackRequest is the request to start tracking a product URL.
type TrackRequest struct {
	URL string `json:"url"`
}

// SearchRequest is the request to search an e-commerce site.
type SearchRequest struct {
	Site  string `json:"site"`
	Query string `json:"query"`
}

// SearchResponse wraps search results with the query that produced them.
type SearchResponse struct {
	Query   string         `json:"query"`
	Site    string         `json:"site"`
	Results []SearchResult `json:"results"`
}

// AlertRequest is the request to set a price alert on a tracked product.
type AlertRequest struct {
	TargetPrice float64 `json:"target_price"`
}
