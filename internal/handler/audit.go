package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

type AuditHandler struct {
	Repo repository.Repository
}

func (h *AuditHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/audit", h.list)
}

func (h *AuditHandler) list(c *gin.Context) {
	params := repository.ListAuditParams{Limit: 50}
	if entityID := strings.TrimSpace(c.Query("entityId")); entityID != "" {
		params.EntityID = &entityID
	}
	if entityType := strings.TrimSpace(c.Query("entityType")); entityType != "" {
		params.EntityType = &entityType
	}
	trail, err := h.Repo.ListAuditEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if trail == nil {
		trail = []models.AuditEntry{}
	}
	Ok(c, gin.H{"trail": trail}, nil)
}
