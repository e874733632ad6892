package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// MapController serves the public map views and the dashboard figures.
type MapController struct {
	statsService services.StatsService
}

// NewMapController creates a new MapController
func NewMapController(statsService services.StatsService) *MapController {
	return &MapController{statsService: statsService}
}

// GetMapPairings returns the geolocated active pairings.
func (c *MapController) GetMapPairings(ctx *gin.Context) {
	resp, err := c.statsService.GetMapPairings(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMapWaiting returns geolocated students waiting for a volunteer.
func (c *MapController) GetMapWaiting(ctx *gin.Context) {
	resp, err := c.statsService.GetMapWaiting(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetStats returns the dashboard counters.
func (c *MapController) GetStats(ctx *gin.Context) {
	resp, err := c.statsService.GetStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
