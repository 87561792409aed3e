package handlers

import (
	"net/http"

	"medibook/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

func NewHealthHandler(monitor *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{Monitor: monitor}
}

// LivenessHandler reports that the process is serving requests.
func (h *HealthHandler) LivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DependenciesHandler returns the last dependency snapshot without running
// any checks inline.
func (h *HealthHandler) DependenciesHandler(c *gin.Context) {
	if h.Monitor == nil {
		c.JSON(http.StatusOK, utils.HealthStatus{Checks: map[string]bool{}})
		return
	}
	c.JSON(http.StatusOK, h.Monitor.Status())
}
