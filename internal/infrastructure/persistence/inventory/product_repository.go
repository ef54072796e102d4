// Package inventory provides the SQL-backed product catalog lookups used by
// the demand detector and the inventory API.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/database"
)

// Product is one catalog row.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Price      float64   `json:"price"`
	StockLevel int       `json:"stockLevel"`
	ImagePath  string    `json:"imagePath,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SQLProductRepository handles product catalog persistence.
type SQLProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProductRepository creates a new instance of the repository.
func NewSQLProductRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProductRepository {
	return &SQLProductRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the products table when it does not exist yet.
func (r *SQLProductRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			price REAL NOT NULL DEFAULT 0,
			stock_level INTEGER NOT NULL DEFAULT 0,
			image_path TEXT,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_products_name ON products (name);`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure products schema: %w", err)
	}
	return nil
}

// StockForQuery resolves the stock level for a normalized search query by
// fuzzy name match. The boolean is false when no product matches. When
// several products match, the lowest stock level wins since that is the
// constraint a merchandiser cares about.
func (r *SQLProductRepository) StockForQuery(ctx context.Context, normalizedQuery string) (int, bool, error) {
	const query = `
		SELECT MIN(stock_level)
		FROM products
		WHERE LOWER(name) LIKE ?`

	start := time.Now()
	var level sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, "%"+normalizedQuery+"%").Scan(&level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		r.logger.Database().Error("Stock lookup failed", "error", err.Error(), "query", normalizedQuery)
		return 0, false, fmt.Errorf("failed to look up stock for %q: %w", normalizedQuery, err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	if !level.Valid {
		return 0, false, nil
	}
	return int(level.Int64), true, nil
}

// UpsertProduct inserts or replaces a catalog row.
func (r *SQLProductRepository) UpsertProduct(ctx context.Context, p *Product) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO products (id, name, category, price, stock_level, image_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			stock_level = excluded.stock_level,
			image_path = excluded.image_path,
			updated_at = excluded.updated_at`

	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		query,
		p.ID,
		p.Name,
		p.Category,
		p.Price,
		p.StockLevel,
		p.ImagePath,
		p.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("Product upsert failed", "error", err.Error(), "productId", p.ID)
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// GetProduct fetches one catalog row by id.
func (r *SQLProductRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	const query = `
		SELECT id, name, category, price, stock_level, image_path, updated_at
		FROM products
		WHERE id = ?`

	var p Product
	var category, imagePath sql.NullString
	var updatedAtStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Price,
		&p.StockLevel,
		&imagePath,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	p.Category = category.String
	p.ImagePath = imagePath.String
	if ts, err := time.Parse("2006-01-02 15:04:05", updatedAtStr); err == nil {
		p.UpdatedAt = ts.UTC()
	}
	return &p, nil
}

// SetImagePath records the processed image location for a product.
func (r *SQLProductRepository) SetImagePath(ctx context.Context, id, imagePath string) error {
	const query = `UPDATE products SET image_path = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, imagePath, time.Now().UTC().Format("2006-01-02 15:04:05"), id)
	if err != nil {
		return fmt.Errorf("failed to set image path for product %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}
