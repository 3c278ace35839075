package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/pkg/weather"
)

// WeatherProvider returns the current local weather, never failing
type WeatherProvider interface {
	Current(ctx context.Context) weather.Weather
}

// WeatherController serves the dashboard weather widget
type WeatherController struct {
	provider WeatherProvider
}

// NewWeatherController creates a new WeatherController
func NewWeatherController(provider WeatherProvider) *WeatherController {
	return &WeatherController{
		provider: provider,
	}
}

// Current returns the current weather
// @Summary Current weather
// @Description Falls back to the last cached reading, then to 15 degrees and clear sky
// @Tags weather
// @Produce json
// @Success 200 {object} dto.APIResponse{data=weather.Weather} "Current weather"
// @Router /weather [get]
func (c *WeatherController) Current(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.provider.Current(ctx.Request.Context())))
}
