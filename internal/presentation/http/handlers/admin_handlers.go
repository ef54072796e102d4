package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// AdminHandlers serves operational endpoints for the admin dashboard.
type AdminHandlers struct {
	logger *logging.ChanneledLogger
}

// NewAdminHandlers creates admin handlers with injected dependencies.
func NewAdminHandlers(logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{logger: logger}
}

// GetLogLevels handles GET /api/v1/admin/logs/levels
func (h *AdminHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// SetLogLevel handles POST /api/v1/admin/logs/levels
func (h *AdminHandlers) SetLogLevel(c *gin.Context) {
	var payload struct {
		Channel string `json:"channel"`
		Level   string `json:"level"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log level payload"})
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(payload.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown log level"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(payload.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": payload.Channel, "level": level.String()})
}
