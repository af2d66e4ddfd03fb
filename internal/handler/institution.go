package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleGetInstitution returns the institution facts keyed by topic
func (h *Handler) HandleGetInstitution(c *gin.Context) {
	facts := h.catalog.InstitutionFacts()
	if len(facts) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Institution information not available"})
		return
	}
	c.JSON(http.StatusOK, facts)
}
