package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// MediaHandlers serves the product image upload endpoints.
type MediaHandlers struct {
	mediaService *services.MediaService
	logger       *logging.ChanneledLogger
}

// NewMediaHandlers creates media handlers with injected dependencies.
func NewMediaHandlers(mediaService *services.MediaService, logger *logging.ChanneledLogger) *MediaHandlers {
	return &MediaHandlers{
		mediaService: mediaService,
		logger:       logger,
	}
}

// PostProductImage handles POST /api/v1/inventory/products/:id/image
// The payload carries a base64 data URI in the data field.
func (h *MediaHandlers) PostProductImage(c *gin.Context) {
	var payload struct {
		Data string `json:"data"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Data == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image payload"})
		return
	}

	productID := c.Param("id")
	imagePath, thumbnails, err := h.mediaService.UploadProductImage(c.Request.Context(), productID, payload.Data)
	if err != nil {
		h.logger.Media().Error("Image upload failed", "productId", productID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imagePath": imagePath, "thumbnails": thumbnails})
}

// DeleteProductImage handles DELETE /api/v1/inventory/products/:id/image
func (h *MediaHandlers) DeleteProductImage(c *gin.Context) {
	productID := c.Param("id")
	if err := h.mediaService.DeleteProductImage(c.Request.Context(), productID); err != nil {
		h.logger.Media().Error("Image delete failed", "productId", productID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
