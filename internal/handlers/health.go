package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports process and database health.
type HealthHandler struct {
	ping    Pinger
	respond *Responder
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(ping Pinger, respond *Responder) *HealthHandler {
	return &HealthHandler{ping: ping, respond: respond}
}

// Check godoc
// @Summary Health check
// @Description Check if service and its database are healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.respond.LogAndRespondError(c, http.StatusServiceUnavailable, err, "database unavailable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
