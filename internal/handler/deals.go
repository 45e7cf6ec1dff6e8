package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scope"
	"forecastcrm/internal/service"
)

type DealHandler struct {
	Repo     repository.Repository
	Insights *service.InsightService
	Logger   *zap.Logger
}

func (h *DealHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/deals", h.list)
	authed.POST("/deals", h.create)
	authed.GET("/deals/:id", h.get)
	authed.PUT("/deals/:id", h.update)
	authed.DELETE("/deals/:id", h.delete)
	authed.PUT("/deals/:id/stage", h.updateStage)
	authed.GET("/deals/:id/activities", h.listActivities)
	authed.POST("/deals/:id/activities", h.createActivity)
	authed.POST("/deals/:id/insights", h.generateInsights)
}

// dealView is a deal enriched with display names.
type dealView struct {
	models.Deal
	AccountName string `json:"accountName"`
	OwnerName   string `json:"ownerName"`
}

func (h *DealHandler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	visible, err := scope.Resolve(c.Request.Context(), h.Repo, user)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	asc := false
	deals, err := h.Repo.ListDeals(c.Request.Context(), repository.ListDealsParams{
		OwnerIDs: visible.OwnerIDs,
		OrderBy:  "updated_at",
		Asc:      &asc,
		Limit:    500,
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	accountNames := map[string]string{}
	ownerNames := map[string]string{}
	views := make([]dealView, 0, len(deals))
	for _, deal := range deals {
		view := dealView{Deal: deal, AccountName: "Unknown", OwnerName: "Unknown"}
		if name, ok := accountNames[deal.AccountID]; ok {
			view.AccountName = name
		} else if account, err := h.Repo.GetAccountByID(c.Request.Context(), deal.AccountID); err == nil && account != nil {
			accountNames[deal.AccountID] = account.Name
			view.AccountName = account.Name
		}
		if name, ok := ownerNames[deal.OwnerID]; ok {
			view.OwnerName = name
		} else if owner, err := h.Repo.GetUserByID(c.Request.Context(), deal.OwnerID); err == nil && owner != nil {
			ownerNames[deal.OwnerID] = owner.Name
			view.OwnerName = owner.Name
		}
		views = append(views, view)
	}
	Ok(c, gin.H{"deals": views}, nil)
}

type dealRequest struct {
	AccountID         *string  `json:"accountId"`
	Name              *string  `json:"name"`
	Stage             *string  `json:"stage"`
	Amount            *float64 `json:"amount"`
	Currency          *string  `json:"currency"`
	ExpectedCloseDate *string  `json:"expectedCloseDate"`
}

func (h *DealHandler) create(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.AccountID == nil || req.Name == nil {
		Error(c, http.StatusBadRequest, "accountId and name required", nil)
		return
	}
	deal := &models.Deal{
		ID:        uuid.NewString(),
		AccountID: *req.AccountID,
		Name:      *req.Name,
		Stage:     models.StageProspecting,
		Amount:    decimal.Zero,
		Currency:  "USD",
		OwnerID:   user.ID,
	}
	if req.Stage != nil && *req.Stage != "" {
		if !validStage(*req.Stage) {
			Error(c, http.StatusBadRequest, "invalid stage", nil)
			return
		}
		deal.Stage = *req.Stage
	}
	if req.Amount != nil {
		deal.Amount = decimal.NewFromFloat(*req.Amount)
	}
	if req.Currency != nil && *req.Currency != "" {
		deal.Currency = *req.Currency
	}
	if req.ExpectedCloseDate != nil && *req.ExpectedCloseDate != "" {
		parsed, err := parseDate(*req.ExpectedCloseDate)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid expectedCloseDate", nil)
			return
		}
		deal.ExpectedCloseDate = &parsed
	}
	if err := h.Repo.CreateDeal(c.Request.Context(), deal); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	recordAudit(c.Request.Context(), h.Repo, h.Logger, "DEAL", deal.ID, models.AuditCreated, user.ID, map[string]any{"name": deal.Name, "stage": deal.Stage})
	Created(c, gin.H{"deal": deal})
}

func (h *DealHandler) get(c *gin.Context) {
	id := c.Param("id")
	deal, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if deal == nil {
		Error(c, http.StatusNotFound, "deal not found", nil)
		return
	}
	view := dealView{Deal: *deal, AccountName: "Unknown", OwnerName: "Unknown"}
	if account, err := h.Repo.GetAccountByID(c.Request.Context(), deal.AccountID); err == nil && account != nil {
		view.AccountName = account.Name
	}
	if owner, err := h.Repo.GetUserByID(c.Request.Context(), deal.OwnerID); err == nil && owner != nil {
		view.OwnerName = owner.Name
	}
	activities, err := h.Repo.ListActivitiesByDealID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	insightRow, err := h.Repo.GetInsightByDealID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deal": view, "activities": activities, "insight": insightRow}, nil)
}

func (h *DealHandler) update(c *gin.Context) {
	user := auth.CurrentUser(c)
	id := c.Param("id")
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Stage != nil {
		if !validStage(*req.Stage) {
			Error(c, http.StatusBadRequest, "invalid stage", nil)
			return
		}
		updates["stage"] = *req.Stage
	}
	if req.Amount != nil {
		updates["amount"] = decimal.NewFromFloat(*req.Amount)
	}
	if req.AccountID != nil {
		updates["account_id"] = *req.AccountID
	}
	if req.ExpectedCloseDate != nil {
		if *req.ExpectedCloseDate == "" {
			updates["expected_close_date"] = nil
		} else {
			parsed, err := parseDate(*req.ExpectedCloseDate)
			if err != nil {
				Error(c, http.StatusBadRequest, "invalid expectedCloseDate", nil)
				return
			}
			updates["expected_close_date"] = parsed
		}
	}
	if err := h.Repo.UpdateDealFields(c.Request.Context(), id, updates); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if req.Stage != nil {
		recordAudit(c.Request.Context(), h.Repo, h.Logger, "DEAL", id, models.AuditStageChanged, user.ID, map[string]any{"newStage": *req.Stage})
	}
	deal, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if deal == nil {
		Error(c, http.StatusNotFound, "deal not found", nil)
		return
	}
	Ok(c, gin.H{"deal": deal}, nil)
}

func (h *DealHandler) delete(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role == models.RoleRep {
		Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}
	if err := h.Repo.DeleteDeal(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"message": "deal deleted"}, nil)
}

type stageRequest struct {
	Stage string `json:"stage"`
}

func (h *DealHandler) updateStage(c *gin.Context) {
	user := auth.CurrentUser(c)
	id := c.Param("id")
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if !validStage(req.Stage) {
		Error(c, http.StatusBadRequest, "invalid stage", nil)
		return
	}
	deal, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if deal == nil {
		Error(c, http.StatusNotFound, "deal not found", nil)
		return
	}
	oldStage := deal.Stage
	if err := h.Repo.UpdateDealFields(c.Request.Context(), id, map[string]any{
		"stage":      req.Stage,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	recordAudit(c.Request.Context(), h.Repo, h.Logger, "DEAL", id, models.AuditStageChanged, user.ID, map[string]any{"oldStage": oldStage, "newStage": req.Stage})
	updated, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deal": updated}, nil)
}

func (h *DealHandler) listActivities(c *gin.Context) {
	activities, err := h.Repo.ListActivitiesByDealID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	Ok(c, gin.H{"activities": activities}, nil)
}

type activityRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (h *DealHandler) createActivity(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Type == "" {
		req.Type = models.ActivityNote
	}
	activity := &models.Activity{
		ID:         uuid.NewString(),
		DealID:     c.Param("id"),
		Type:       req.Type,
		Content:    req.Content,
		OccurredAt: time.Now().UTC(),
		CreatedBy:  user.ID,
	}
	if err := h.Repo.CreateActivity(c.Request.Context(), activity); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, gin.H{"activity": activity})
}

func (h *DealHandler) generateInsights(c *gin.Context) {
	item, err := h.Insights.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"insight": item}, nil)
}

func validStage(stage string) bool {
	switch stage {
	case models.StageProspecting, models.StageQualified, models.StageProposal,
		models.StageNegotiation, models.StageWon, models.StageLost:
		return true
	}
	return false
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
