package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
)

// HealthResponse reports liveness
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"file"`
	Uptime  string `json:"uptime" example:"1h2m3s"`
}

// HealthController answers liveness probes
type HealthController struct {
	storage string
	started time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController(storage string) *HealthController {
	return &HealthController{
		storage: storage,
		started: time.Now(),
	}
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=HealthResponse} "Service is up"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:  "ok",
		Storage: c.storage,
		Uptime:  time.Since(c.started).Truncate(time.Second).String(),
	}))
}
