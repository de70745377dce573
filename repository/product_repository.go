package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pricescout/database"
	"pricescout/models"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Add inserts a newly tracked product and returns it with its generated ID.
func (r *ProductRepository) Add(url, name, eshop string, rec *models.ProductRecord) (*models.Product, error) {
	var originalPrice sql.NullFloat64
	if rec.OriginalPrice != nil {
		originalPrice = sql.NullFloat64{Float64: *rec.OriginalPrice, Valid: true}
	}

	product := &models.Product{
		URL:            url,
		Name:           name,
		Eshop:          eshop,
		LastKnownPrice: sql.NullFloat64{Float64: rec.Price, Valid: true},
		IsOnSale:       rec.IsOnSale,
		OriginalPrice:  originalPrice,
		IsTracked:      true,
	}

	err := database.DB.QueryRow(`
		INSERT INTO products (url, name, eshop, last_known_price, is_on_sale, original_price, is_tracked, last_check_time)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW())
		RETURNING id, last_check_time, created_at`,
		url, name, eshop, product.LastKnownPrice, rec.IsOnSale, originalPrice,
	).Scan(&product.ID, &product.LastCheckTime, &product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %v", err)
	}

	return product, nil
}

// GetByURL returns the product tracked at the given URL, or nil when none exists.
func (r *ProductRepository) GetByURL(url string) (*models.Product, error) {
	product := &models.Product{}
	err := database.DB.QueryRow(`
		SELECT id, url, name, eshop, last_known_price, is_on_sale, original_price,
		       alert_price, alert_triggered, is_tracked, last_check_time, created_at
		FROM products WHERE url = $1`, url,
	).Scan(&product.ID, &product.URL, &product.Name, &product.Eshop,
		&product.LastKnownPrice, &product.IsOnSale, &product.OriginalPrice,
		&product.AlertPrice, &product.AlertTriggered, &product.IsTracked,
		&product.LastCheckTime, &product.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by URL: %v", err)
	}
	return product, nil
}

// GetByID returns the product with the given ID, or nil when none exists.
func (r *ProductRepository) GetByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	err := database.DB.QueryRow(`
		SELECT id, url, name, eshop, last_known_price, is_on_sale, original_price,
		       alert_price, alert_triggered, is_tracked, last_check_time, created_at
		FROM products WHERE id = $1`, id,
	).Scan(&product.ID, &product.URL, &product.Name, &product.Eshop,
		&product.LastKnownPrice, &product.IsOnSale, &product.OriginalPrice,
		&product.AlertPrice, &product.AlertTriggered, &product.IsTracked,
		&product.LastCheckTime, &product.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID: %v", err)
	}
	return product, nil
}

// GetTracked returns all products still being tracked, oldest first.
func (r *ProductRepository) GetTracked() ([]*models.Product, error) {
	rows, err := database.DB.Query(`
		SELECT id, url, name, eshop, last_known_price, is_on_sale, original_price,
		       alert_price, alert_triggered, is_tracked, last_check_time, created_at
		FROM products WHERE is_tracked = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked products: %v", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(&product.ID, &product.URL, &product.Name, &product.Eshop,
			&product.LastKnownPrice, &product.IsOnSale, &product.OriginalPrice,
			&product.AlertPrice, &product.AlertTriggered, &product.IsTracked,
			&product.LastCheckTime, &product.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// UpdatePrice records the latest observed price state for a product.
func (r *ProductRepository) UpdatePrice(id int64, rec *models.ProductRecord) error {
	var originalPrice sql.NullFloat64
	if rec.OriginalPrice != nil {
		originalPrice = sql.NullFloat64{Float64: *rec.OriginalPrice, Valid: true}
	}

	_, err := database.DB.Exec(`
		UPDATE products
		SET last_known_price = $1, is_on_sale = $2, original_price = $3, last_check_time = NOW()
		WHERE id = $4`,
		rec.Price, rec.IsOnSale, originalPrice, id)
	if err != nil {
		return fmt.Errorf("failed to update product price: %v", err)
	}
	return nil
}

// AddHistory appends a price history entry for a product.
func (r *ProductRepository) AddHistory(productID int64, rec *models.ProductRecord) error {
	var originalPrice sql.NullFloat64
	if rec.OriginalPrice != nil {
		originalPrice = sql.NullFloat64{Float64: *rec.OriginalPrice, Valid: true}
	}

	_, err := database.DB.Exec(`
		INSERT INTO price_history (product_id, price, is_on_sale, original_price)
		VALUES ($1, $2, $3, $4)`,
		productID, rec.Price, rec.IsOnSale, originalPrice)
	if err != nil {
		return fmt.Errorf("failed to add price history: %v", err)
	}
	return nil
}

// GetHistory returns a product's price history, newest entry first.
func (r *ProductRepository) GetHistory(productID int64) ([]*models.PriceHistory, error) {
	rows, err := database.DB.Query(`
		SELECT id, product_id, price, is_on_sale, original_price, checked_at
		FROM price_history WHERE product_id = $1 ORDER BY checked_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %v", err)
	}
	defer rows.Close()

	var history []*models.PriceHistory
	for rows.Next() {
		entry := &models.PriceHistory{}
		err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Price,
			&entry.IsOnSale, &entry.OriginalPrice, &entry.CheckedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price history: %v", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// SetAlert sets a target price alert and resets its triggered state.
func (r *ProductRepository) SetAlert(id int64, targetPrice float64) error {
	_, err := database.DB.Exec(`
		UPDATE products SET alert_price = $1, alert_triggered = FALSE WHERE id = $2`,
		targetPrice, id)
	if err != nil {
		return fmt.Errorf("failed to set alert: %v", err)
	}
	return nil
}

// ClearAlert removes the price alert from a product.
func (r *ProductRepository) ClearAlert(id int64) error {
	_, err := database.DB.Exec(`
		UPDATE products SET alert_price = NULL, alert_triggered = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear alert: %v", err)
	}
	return nil
}

// MarkAlertTriggered flags the alert as fired so it does not repeat.
func (r *ProductRepository) MarkAlertTriggered(id int64) error {
	_, err := database.DB.Exec(`
		UPDATE products SET alert_triggered = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %v", err)
	}
	return nil
}

// StopTracking disables scheduled checks for a product without losing history.
func (r *ProductRepository) StopTracking(id int64) error {
	_, err := database.DB.Exec(`
		UPDATE products SET is_tracked = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to stop tracking product: %v", err)
	}
	return nil
}

// TouchCheckTime updates only the last check timestamp.
func (r *ProductRepository) TouchCheckTime(id int64, at time.Time) error {
	_, err := database.DB.Exec(`
		UPDATE products SET last_check_time = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update check time: %v", err)
	}
	return nil
}
