// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// EventHandlers ingests journey events from the storefront.
type EventHandlers struct {
	eventService *services.EventProcessingService
	logger       *logging.ChanneledLogger
}

// NewEventHandlers creates event handlers with injected dependencies.
func NewEventHandlers(eventService *services.EventProcessingService, logger *logging.ChanneledLogger) *EventHandlers {
	return &EventHandlers{
		eventService: eventService,
		logger:       logger,
	}
}

// PostEvent handles POST /api/v1/events
func (h *EventHandlers) PostEvent(c *gin.Context) {
	var event analytics.RawEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	accepted, err := h.eventService.ProcessEvent(c.Request.Context(), &event)
	if err != nil {
		h.logger.Events().Error("Event persistence failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store event"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted, "eventId": event.EventID})
}

// PostEventBatch handles POST /api/v1/events/batch
func (h *EventHandlers) PostEventBatch(c *gin.Context) {
	var payload struct {
		Events []analytics.RawEvent `json:"events"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch payload"})
		return
	}

	accepted, err := h.eventService.ProcessBatch(c.Request.Context(), payload.Events)
	if err != nil {
		h.logger.Events().Error("Event batch persistence failed", "error", err.Error(), "accepted", accepted)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store batch", "accepted": accepted})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted, "received": len(payload.Events)})
}
