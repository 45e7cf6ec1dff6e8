package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/service"
)

type SettingsHandler struct {
	Settings *service.SettingsService
}

func (h *SettingsHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/settings", h.get)
	authed.PUT("/settings", h.update)
}

func (h *SettingsHandler) get(c *gin.Context) {
	setting, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"settings": setting}, nil)
}

type settingsRequest struct {
	AIMode *string `json:"aiMode"`
}

func (h *SettingsHandler) update(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "only admins can update settings", nil)
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.AIMode != nil {
		if err := h.Settings.UpdateAIMode(c.Request.Context(), *req.AIMode); err != nil {
			ServiceError(c, err)
			return
		}
	}
	Ok(c, gin.H{"message": "settings updated"}, nil)
}
