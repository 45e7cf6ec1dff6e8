package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
	"forecastcrm/internal/scope"
)

type AccountHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *AccountHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/accounts", h.list)
	authed.POST("/accounts", h.create)
	authed.GET("/accounts/:id", h.get)
	authed.PUT("/accounts/:id", h.update)
	authed.DELETE("/accounts/:id", h.delete)
	authed.GET("/accounts/:id/contacts", h.contacts)
	authed.POST("/contacts", h.createContact)
}

// accountView is an account plus rollups over its deals.
type accountView struct {
	models.Account
	DealCount  int             `json:"dealCount"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

func (h *AccountHandler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	visible, err := scope.Resolve(c.Request.Context(), h.Repo, user)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	accounts, err := h.Repo.ListAccounts(c.Request.Context(), repository.ListAccountsParams{OwnerIDs: visible.OwnerIDs, Limit: 500})
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		deals, err := h.Repo.ListDealsByAccountID(c.Request.Context(), account.ID)
		if err != nil {
			Error(c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		view := accountView{Account: account, TotalValue: decimal.Zero}
		view.DealCount = len(deals)
		for _, d := range deals {
			if d.Stage != models.StageLost {
				view.TotalValue = view.TotalValue.Add(d.Amount)
			}
		}
		views = append(views, view)
	}
	Ok(c, gin.H{"accounts": views}, nil)
}

type accountRequest struct {
	Name     *string `json:"name"`
	Domain   *string `json:"domain"`
	Industry *string `json:"industry"`
	Country  *string `json:"country"`
}

func (h *AccountHandler) create(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		Error(c, http.StatusBadRequest, "name required", nil)
		return
	}
	account := &models.Account{
		ID:      uuid.NewString(),
		Name:    *req.Name,
		OwnerID: user.ID,
	}
	if req.Domain != nil {
		account.Domain = *req.Domain
	}
	if req.Industry != nil {
		account.Industry = *req.Industry
	}
	if req.Country != nil {
		account.Country = *req.Country
	}
	if err := h.Repo.CreateAccount(c.Request.Context(), account); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	recordAudit(c.Request.Context(), h.Repo, h.Logger, "ACCOUNT", account.ID, models.AuditCreated, user.ID, map[string]any{"name": account.Name})
	Created(c, gin.H{"account": account})
}

func (h *AccountHandler) get(c *gin.Context) {
	id := c.Param("id")
	account, err := h.Repo.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if account == nil {
		Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	contacts, err := h.Repo.ListContactsByAccountID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	deals, err := h.Repo.ListDealsByAccountID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	if deals == nil {
		deals = []models.Deal{}
	}
	Ok(c, gin.H{"account": account, "contacts": contacts, "deals": deals}, nil)
}

func (h *AccountHandler) update(c *gin.Context) {
	id := c.Param("id")
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Domain != nil {
		updates["domain"] = *req.Domain
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if err := h.Repo.UpdateAccountFields(c.Request.Context(), id, updates); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	account, err := h.Repo.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if account == nil {
		Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	Ok(c, gin.H{"account": account}, nil)
}

func (h *AccountHandler) delete(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user.Role == models.RoleRep {
		Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}
	if err := h.Repo.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"message": "account deleted"}, nil)
}

func (h *AccountHandler) contacts(c *gin.Context) {
	contacts, err := h.Repo.ListContactsByAccountID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	Ok(c, gin.H{"contacts": contacts}, nil)
}

type contactRequest struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
}

func (h *AccountHandler) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.AccountID == "" || req.Name == "" {
		Error(c, http.StatusBadRequest, "accountId and name required", nil)
		return
	}
	contact := &models.Contact{
		ID:        uuid.NewString(),
		AccountID: req.AccountID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
	}
	if err := h.Repo.CreateContact(c.Request.Context(), contact); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Created(c, gin.H{"contact": contact})
}
