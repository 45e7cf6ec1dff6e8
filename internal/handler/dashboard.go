package handler

import (
	"github.com/gin-gonic/gin"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/service"
)

type DashboardHandler struct {
	Stats *service.DashboardService
}

func (h *DashboardHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/dashboard/stats", h.stats)
}

func (h *DashboardHandler) stats(c *gin.Context) {
	stats, err := h.Stats.Stats(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, stats, nil)
}
