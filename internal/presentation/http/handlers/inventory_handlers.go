package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/inventory"
)

// InventoryHandlers manages the product catalog endpoints.
type InventoryHandlers struct {
	inventoryService *services.InventoryService
	logger           *logging.ChanneledLogger
}

// NewInventoryHandlers creates inventory handlers with injected dependencies.
func NewInventoryHandlers(inventoryService *services.InventoryService, logger *logging.ChanneledLogger) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// PutProduct handles PUT /api/v1/inventory/products/:id
func (h *InventoryHandlers) PutProduct(c *gin.Context) {
	var product inventory.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	product.ID = c.Param("id")

	if err := h.inventoryService.UpsertProduct(c.Request.Context(), &product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProduct handles GET /api/v1/inventory/products/:id
func (h *InventoryHandlers) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Inventory().Error("Product fetch failed", "productId", c.Param("id"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetStock handles GET /api/v1/inventory/stock
func (h *InventoryHandlers) GetStock(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	level, found, err := h.inventoryService.StockForQuery(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stock lookup failed"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "stockLevel": level})
}
