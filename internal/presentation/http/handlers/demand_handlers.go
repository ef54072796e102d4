package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/pkg/config"
)

// DemandHandlers serves the predictive demand endpoints.
type DemandHandlers struct {
	demandService *services.DemandService
	digestService *services.DigestService
	logger        *logging.ChanneledLogger
}

// NewDemandHandlers creates demand handlers with injected dependencies.
func NewDemandHandlers(demandService *services.DemandService, digestService *services.DigestService, logger *logging.ChanneledLogger) *DemandHandlers {
	return &DemandHandlers{
		demandService: demandService,
		digestService: digestService,
		logger:        logger,
	}
}

// demandParams parses the optional detector tuning query parameters.
// Absent or malformed values fall back to the configured thresholds.
func demandParams(c *gin.Context) analytics.DemandParams {
	params := analytics.DemandParams{
		WindowDays:      config.DemandWindowDays,
		MinSearches:     config.DemandMinSearches,
		MinWoWGrowthPct: config.DemandMinGrowthPct,
	}
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		params.WindowDays = days
	}
	if minSearches, err := strconv.Atoi(c.Query("minSearches")); err == nil && minSearches > 0 {
		params.MinSearches = minSearches
	}
	if growth, err := strconv.ParseFloat(c.Query("minGrowthPct"), 64); err == nil && growth > 0 {
		params.MinWoWGrowthPct = growth
	}
	return params
}

// GetDemandSignals handles GET /api/v1/analytics/demand
func (h *DemandHandlers) GetDemandSignals(c *gin.Context) {
	signals, err := h.demandService.DetectDemand(c.Request.Context(), demandParams(c))
	if err != nil {
		h.logger.Analytics().Error("Demand detection failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect demand"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signals})
}

// PostDemandDigest handles POST /api/v1/analytics/demand/digest
func (h *DemandHandlers) PostDemandDigest(c *gin.Context) {
	if err := h.digestService.SendDigest(c.Request.Context(), demandParams(c)); err != nil {
		h.logger.Email().Error("Demand digest request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
