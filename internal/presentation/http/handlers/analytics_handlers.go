package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// AnalyticsHandlers serves the journey analytics dashboard endpoints.
type AnalyticsHandlers struct {
	journeyService *services.JourneyAnalyticsService
	logger         *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies.
func NewAnalyticsHandlers(journeyService *services.JourneyAnalyticsService, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		journeyService: journeyService,
		logger:         logger,
	}
}

// windowDaysParam parses the ?days= query parameter, defaulting to 7.
func windowDaysParam(c *gin.Context) int {
	raw := c.DefaultQuery("days", "7")
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 7
	}
	return days
}

// GetJourneyReport handles GET /api/v1/analytics/journey
func (h *AnalyticsHandlers) GetJourneyReport(c *gin.Context) {
	report, err := h.journeyService.GetJourneyReport(c.Request.Context(), windowDaysParam(c))
	if err != nil {
		h.logger.Analytics().Error("Journey report failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute journey report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetFunnelReport handles GET /api/v1/analytics/funnel
func (h *AnalyticsHandlers) GetFunnelReport(c *gin.Context) {
	funnel, terms, err := h.journeyService.GetFunnelReport(c.Request.Context(), windowDaysParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute funnel report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funnel": funnel, "searchTerms": terms})
}

// GetFlowReport handles GET /api/v1/analytics/flow
func (h *AnalyticsHandlers) GetFlowReport(c *gin.Context) {
	flow, err := h.journeyService.GetFlowReport(c.Request.Context(), windowDaysParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute flow report"})
		return
	}
	c.JSON(http.StatusOK, flow)
}

// GetQualityReport handles GET /api/v1/analytics/quality
func (h *AnalyticsHandlers) GetQualityReport(c *gin.Context) {
	quality, err := h.journeyService.GetQualityReport(c.Request.Context(), windowDaysParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute quality report"})
		return
	}
	c.JSON(http.StatusOK, quality)
}

// GetQueryIntent handles GET /api/v1/analytics/intent
func (h *AnalyticsHandlers) GetQueryIntent(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "result": h.journeyService.ClassifyQuery(query)})
}
