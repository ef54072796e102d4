package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/HarborCommerce/harbor-go/pkg/config"
)

func demandContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func setDemandConfig(t *testing.T, windowDays, minSearches int, minGrowthPct float64) {
	t.Helper()
	prevDays, prevMin, prevGrowth := config.DemandWindowDays, config.DemandMinSearches, config.DemandMinGrowthPct
	config.DemandWindowDays = windowDays
	config.DemandMinSearches = minSearches
	config.DemandMinGrowthPct = minGrowthPct
	t.Cleanup(func() {
		config.DemandWindowDays = prevDays
		config.DemandMinSearches = prevMin
		config.DemandMinGrowthPct = prevGrowth
	})
}

func TestDemandParamsSeededFromConfig(t *testing.T) {
	setDemandConfig(t, 14, 3, 80)

	params := demandParams(demandContext(t, "/api/v1/analytics/demand"))
	assert.Equal(t, 14, params.WindowDays)
	assert.Equal(t, 3, params.MinSearches)
	assert.Equal(t, 80.0, params.MinWoWGrowthPct)
}

func TestDemandParamsQueryOverridesConfig(t *testing.T) {
	setDemandConfig(t, 14, 3, 80)

	params := demandParams(demandContext(t,
		"/api/v1/analytics/demand?days=3&minSearches=25&minGrowthPct=120"))
	assert.Equal(t, 3, params.WindowDays)
	assert.Equal(t, 25, params.MinSearches)
	assert.Equal(t, 120.0, params.MinWoWGrowthPct)
}

func TestDemandParamsIgnoresMalformedOverrides(t *testing.T) {
	setDemandConfig(t, 14, 3, 80)

	params := demandParams(demandContext(t,
		"/api/v1/analytics/demand?days=abc&minSearches=-1&minGrowthPct=0"))
	assert.Equal(t, 14, params.WindowDays)
	assert.Equal(t, 3, params.MinSearches)
	assert.Equal(t, 80.0, params.MinWoWGrowthPct)
}
