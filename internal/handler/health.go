package handler

import (
	"net/http"
	"time"

	"ingechat/internal/knowledge"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Knowledge knowledge.Stats `json:"knowledge"`
}

// HandleHealth returns the health status of the service.
// An empty knowledge base still serves through the external fallback, so it is only degraded.
func (h *Handler) HandleHealth(c *gin.Context) {
	stats := h.catalog.Stats()
	status := "healthy"
	if stats.Empty() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Knowledge: stats,
	})
}

// HandleReadiness returns whether the service is ready to accept traffic
func (h *Handler) HandleReadiness(c *gin.Context) {
	if h.catalog.Stats().Empty() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "knowledge_not_loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
