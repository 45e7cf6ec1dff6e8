package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

type AuthHandler struct {
	Repo   repository.Repository
	JWT    auth.JWT
	Logger *zap.Logger
}

// Register wires the public auth routes on the engine and /me behind the
// authenticated group.
func (h *AuthHandler) Register(r *gin.Engine, authed *gin.RouterGroup) {
	r.POST("/api/auth/login", h.login)
	r.POST("/api/auth/register", h.register)
	authed.GET("/auth/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		Error(c, http.StatusBadRequest, "email and password required", nil)
		return
	}
	user, err := h.Repo.GetUserByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	token, _, err := h.JWT.Sign(auth.Claims{UserID: user.ID, Role: user.Role})
	if err != nil {
		Error(c, http.StatusInternalServerError, "token signing failed", nil)
		return
	}
	recordAudit(c.Request.Context(), h.Repo, h.Logger, "USER", user.ID, models.AuditLogin, user.ID, map[string]any{})
	Ok(c, gin.H{"token": token, "user": user}, nil)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		Error(c, http.StatusBadRequest, "name, email, and password required", nil)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := h.Repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if existing != nil {
		Error(c, http.StatusBadRequest, "email already in use", nil)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		Error(c, http.StatusInternalServerError, "password hashing failed", nil)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleRep
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.Repo.CreateUser(c.Request.Context(), user); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	token, _, err := h.JWT.Sign(auth.Claims{UserID: user.ID, Role: user.Role})
	if err != nil {
		Error(c, http.StatusInternalServerError, "token signing failed", nil)
		return
	}
	Created(c, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) me(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	Ok(c, gin.H{"user": user}, nil)
}
