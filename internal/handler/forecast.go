package handler

import (
	"github.com/gin-gonic/gin"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/service"
)

type ForecastHandler struct {
	Forecast *service.ForecastService
}

func (h *ForecastHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/forecast", h.forecast)
}

func (h *ForecastHandler) forecast(c *gin.Context) {
	result, err := h.Forecast.Forecast(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}
