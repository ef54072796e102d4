package services

import (
	"context"
	"fmt"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/media"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/inventory"
)

// MediaService handles product image uploads and their catalog linkage.
type MediaService struct {
	processor *media.ImageProcessor
	products  *inventory.SQLProductRepository
	logger    *logging.ChanneledLogger
}

// NewMediaService creates the media service.
func NewMediaService(processor *media.ImageProcessor, products *inventory.SQLProductRepository, logger *logging.ChanneledLogger) *MediaService {
	return &MediaService{
		processor: processor,
		products:  products,
		logger:    logger,
	}
}

// UploadProductImage stores a base64 data URI as the product's image,
// generates WebP thumbnails, and records the path on the catalog row. The
// previous image, if any, is removed after the new one is in place.
func (s *MediaService) UploadProductImage(ctx context.Context, productID, data string) (string, []string, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return "", nil, err
	}
	if product == nil {
		return "", nil, fmt.Errorf("product %s not found", productID)
	}

	imagePath, thumbnails, err := s.processor.ProcessProductImage(data, productID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to process image for product %s: %w", productID, err)
	}

	if err := s.products.SetImagePath(ctx, productID, imagePath); err != nil {
		if cleanupErr := s.processor.DeleteProductImage(imagePath); cleanupErr != nil {
			s.logger.Media().Warn("Failed to remove orphaned image", "path", imagePath, "error", cleanupErr.Error())
		}
		return "", nil, err
	}

	if product.ImagePath != "" && product.ImagePath != imagePath {
		if err := s.processor.DeleteProductImage(product.ImagePath); err != nil {
			s.logger.Media().Warn("Failed to remove previous image", "path", product.ImagePath, "error", err.Error())
		}
	}

	s.logger.Media().Info("Product image uploaded",
		"productId", productID,
		"path", imagePath,
		"thumbnails", len(thumbnails))
	return imagePath, thumbnails, nil
}

// DeleteProductImage removes a product's image files and clears the path.
func (s *MediaService) DeleteProductImage(ctx context.Context, productID string) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.ImagePath == "" {
		return nil
	}

	if err := s.processor.DeleteProductImage(product.ImagePath); err != nil {
		return err
	}
	return s.products.SetImagePath(ctx, productID, "")
}
