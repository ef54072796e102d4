package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/inventory"
)

// InventoryService manages the product catalog behind the demand detector
// and the inventory API.
type InventoryService struct {
	products *inventory.SQLProductRepository
	logger   *logging.ChanneledLogger
}

// NewInventoryService creates the inventory service.
func NewInventoryService(products *inventory.SQLProductRepository, logger *logging.ChanneledLogger) *InventoryService {
	return &InventoryService{
		products: products,
		logger:   logger,
	}
}

// UpsertProduct validates and stores a catalog row.
func (s *InventoryService) UpsertProduct(ctx context.Context, p *inventory.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.StockLevel < 0 {
		return fmt.Errorf("stock level cannot be negative")
	}

	if err := s.products.UpsertProduct(ctx, p); err != nil {
		return err
	}
	s.logger.Inventory().Info("Product upserted", "productId", p.ID, "stockLevel", p.StockLevel)
	return nil
}

// GetProduct fetches one catalog row, nil when absent.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*inventory.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// StockForQuery implements the inventory lookup collaborator contract
// against the catalog.
func (s *InventoryService) StockForQuery(ctx context.Context, normalizedQuery string) (int, bool, error) {
	return s.products.StockForQuery(ctx, analytics.NormalizeKey(normalizedQuery))
}
