package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scope"
)

type LeadHandler struct {
	Repo repository.Repository
}

func (h *LeadHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/leads", h.list)
	authed.POST("/leads", h.create)
	authed.PUT("/leads/:id", h.update)
}

func (h *LeadHandler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	visible, err := scope.Resolve(c.Request.Context(), h.Repo, user)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	params := repository.ListLeadsParams{OwnerIDs: visible.OwnerIDs, Limit: 200}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		params.Status = &status
	}
	leads, err := h.Repo.ListLeads(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	Ok(c, gin.H{"leads": leads}, nil)
}

type leadRequest struct {
	AccountID *string `json:"accountId"`
	ContactID *string `json:"contactId"`
	Source    *string `json:"source"`
	Status    *string `json:"status"`
	Score     *int    `json:"score"`
}

func (h *LeadHandler) create(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	lead := &models.Lead{
		ID:        uuid.NewString(),
		AccountID: req.AccountID,
		ContactID: req.ContactID,
		Status:    models.LeadNew,
		OwnerID:   user.ID,
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Score != nil {
		lead.Score = *req.Score
	}
	if err := h.Repo.CreateLead(c.Request.Context(), lead); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, gin.H{"lead": lead})
}

func (h *LeadHandler) update(c *gin.Context) {
	id := c.Param("id")
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	updates := map[string]any{}
	if req.Status != nil {
		if *req.Status != models.LeadNew && *req.Status != models.LeadConverted {
			Error(c, http.StatusBadRequest, "invalid status", nil)
			return
		}
		updates["status"] = *req.Status
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if req.AccountID != nil {
		updates["account_id"] = *req.AccountID
	}
	if req.ContactID != nil {
		updates["contact_id"] = *req.ContactID
	}
	if err := h.Repo.UpdateLeadFields(c.Request.Context(), id, updates); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	lead, err := h.Repo.GetLeadByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if lead == nil {
		Error(c, http.StatusNotFound, "lead not found", nil)
		return
	}
	Ok(c, gin.H{"lead": lead}, nil)
}
