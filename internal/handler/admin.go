package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

type AdminHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *AdminHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/admin/users", h.listUsers)
	authed.PUT("/admin/users/:id", h.updateUser)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role != models.RoleAdmin && user.Role != models.RoleManager {
		Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}
	params := repository.ListUsersParams{Limit: 500}
	if user.Role == models.RoleManager {
		params.TeamID = user.TeamID
	}
	users, err := h.Repo.ListUsers(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	teams, err := h.Repo.ListTeams(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	if teams == nil {
		teams = []models.Team{}
	}
	Ok(c, gin.H{"users": users, "teams": teams}, nil)
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	TeamID *string `json:"teamId"`
}

func (h *AdminHandler) updateUser(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		Error(c, http.StatusForbidden, "only admins can update users", nil)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleRep, models.RoleManager, models.RoleAdmin:
		default:
			Error(c, http.StatusBadRequest, "invalid role", nil)
			return
		}
		updates["role"] = *req.Role
	}
	if req.TeamID != nil {
		if *req.TeamID == "" {
			updates["team_id"] = nil
		} else {
			updates["team_id"] = *req.TeamID
		}
	}
	id := c.Param("id")
	if err := h.Repo.UpdateUserFields(c.Request.Context(), id, updates); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	updated, err := h.Repo.GetUserByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if updated == nil {
		Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	Ok(c, gin.H{"user": updated}, nil)
}
