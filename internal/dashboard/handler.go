package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler exposes the dashboard service over HTTP.
type Handler struct {
	service       *Service
	whaleChartMin float64
}

// NewHandler creates a dashboard HTTP handler. whaleChartMin is the default
// quantity filter for the whales endpoint.
func NewHandler(service *Service, whaleChartMin float64) *Handler {
	return &Handler{
		service:       service,
		whaleChartMin: whaleChartMin,
	}
}

// GetTrades returns the merged recent dataset.
func (h *Handler) GetTrades(c *gin.Context) {
	trades, err := h.service.Trades(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trades)
}

// GetStats returns the KPI numbers.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetWhales returns trades above the size filter. The "min" query parameter
// overrides the configured default.
func (h *Handler) GetWhales(c *gin.Context) {
	min := h.whaleChartMin
	if raw := c.Query("min"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min parameter"})
			return
		}
		min = parsed
	}

	whales, err := h.service.Whales(c.Request.Context(), min)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, whales)
}

// PostRefresh drops the dataset cache so the next read re-reads the lake.
func (h *Handler) PostRefresh(c *gin.Context) {
	h.service.Refresh()
	c.JSON(http.StatusOK, gin.H{"status": "cache invalidated"})
}

// GetHealth is a liveness probe.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
