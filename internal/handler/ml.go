package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/service"
)

type MLHandler struct {
	Retrain *service.RetrainService
}

func (h *MLHandler) Register(authed *gin.RouterGroup) {
	authed.POST("/ml/retrain", h.retrain)
}

func (h *MLHandler) retrain(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role == models.RoleRep {
		Error(c, http.StatusForbidden, "only managers and admins can retrain", nil)
		return
	}
	result, err := h.Retrain.Retrain(c.Request.Context(), user)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}
