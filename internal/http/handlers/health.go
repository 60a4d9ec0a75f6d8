package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// Health godoc
// @ID          health
// @Summary     Liveness check
// @Tags        System
// @Produce     json
// @Success     200 {object} handlers.HealthResponse
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		OK:      true,
		Service: "vortexcore",
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
