package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

func adminFixture(t *testing.T) (*AdminHandlers, *logging.ChanneledLogger) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelInfo,
	})
	require.NoError(t, err)
	return NewAdminHandlers(logger), logger
}

func TestGetLogLevelsListsAllChannels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handlers, _ := adminFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/admin/logs/levels", nil)

	handlers.GetLogLevels(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"analytics":"INFO"`)
}

func TestSetLogLevelUpdatesChannel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handlers, logger := adminFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/admin/logs/levels",
		strings.NewReader(`{"channel":"analytics","level":"debug"}`))

	handlers.SetLogLevel(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DEBUG", logger.GetChannelLevels()["analytics"])
}

func TestSetLogLevelRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handlers, _ := adminFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/admin/logs/levels",
		strings.NewReader(`{"channel":"analytics","level":"loud"}`))
	handlers.SetLogLevel(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/admin/logs/levels",
		strings.NewReader(`{"channel":"no-such-channel","level":"debug"}`))
	handlers.SetLogLevel(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
