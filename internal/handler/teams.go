package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

type TeamHandler struct {
	Repo repository.Repository
}

func (h *TeamHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/teams", h.list)
	authed.POST("/teams", h.create)
}

func (h *TeamHandler) list(c *gin.Context) {
	teams, err := h.Repo.ListTeams(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	Ok(c, gin.H{"teams": teams}, nil)
}

type teamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) create(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "only admins can create teams", nil)
		return
	}
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		Error(c, http.StatusBadRequest, "name required", nil)
		return
	}
	team := &models.Team{ID: uuid.NewString(), Name: req.Name}
	if err := h.Repo.CreateTeam(c.Request.Context(), team); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, gin.H{"team": team})
}
