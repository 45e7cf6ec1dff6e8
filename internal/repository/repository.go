package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"forecastcrm/internal/models"
)

// Repository is the persistence surface used by the services and handlers.
// Implementations return (nil, nil) for missing single rows; callers decide
// whether absence is an error.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Users and teams.
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, params ListUsersParams) ([]models.User, error)
	UpdateUserFields(ctx context.Context, id string, updates map[string]any) error
	ListUserIDsByTeam(ctx context.Context, teamID string) ([]string, error)
	CreateTeam(ctx context.Context, item *models.Team) error
	ListTeams(ctx context.Context) ([]models.Team, error)

	// Accounts and contacts.
	CreateAccount(ctx context.Context, item *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, params ListAccountsParams) ([]models.Account, error)
	UpdateAccountFields(ctx context.Context, id string, updates map[string]any) error
	DeleteAccount(ctx context.Context, id string) error
	CreateContact(ctx context.Context, item *models.Contact) error
	ListContactsByAccountID(ctx context.Context, accountID string) ([]models.Contact, error)
	ListContacts(ctx context.Context, params ListContactsParams) ([]models.Contact, error)

	// Deals.
	CreateDeal(ctx context.Context, item *models.Deal) error
	GetDealByID(ctx context.Context, id string) (*models.Deal, error)
	ListDeals(ctx context.Context, params ListDealsParams) ([]models.Deal, error)
	CountDeals(ctx context.Context, params ListDealsParams) (int64, error)
	ListDealsByAccountID(ctx context.Context, accountID string) ([]models.Deal, error)
	UpdateDealFields(ctx context.Context, id string, updates map[string]any) error
	UpdateDealScore(ctx context.Context, id string, closeProbability float64, riskLevel string) error
	DeleteDeal(ctx context.Context, id string) error

	// Activities.
	CreateActivity(ctx context.Context, item *models.Activity) error
	ListActivitiesByDealID(ctx context.Context, dealID string) ([]models.Activity, error)
	CountActivitiesByDealID(ctx context.Context, dealID string) (int64, error)
	ListRecentActivities(ctx context.Context, params ListActivitiesParams) ([]models.Activity, error)

	// Insights.
	UpsertInsight(ctx context.Context, item *models.Insight) error
	GetInsightByDealID(ctx context.Context, dealID string) (*models.Insight, error)

	// Forecast snapshots.
	UpsertForecastSnapshot(ctx context.Context, item *models.ForecastSnapshot) error
	ListForecastSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.ForecastSnapshot, error)

	// Leads.
	CreateLead(ctx context.Context, item *models.Lead) error
	GetLeadByID(ctx context.Context, id string) (*models.Lead, error)
	ListLeads(ctx context.Context, params ListLeadsParams) ([]models.Lead, error)
	UpdateLeadFields(ctx context.Context, id string, updates map[string]any) error

	// Audit trail. Inserts are best-effort at call sites.
	InsertAuditEntry(ctx context.Context, item *models.AuditEntry) error
	ListAuditEntries(ctx context.Context, params ListAuditParams) ([]models.AuditEntry, error)

	// Settings singleton.
	GetSetting(ctx context.Context) (*models.Setting, error)
	UpsertSetting(ctx context.Context, item *models.Setting) error

	// Dev-reset support.
	TruncateAll(ctx context.Context) error
}

// NoLimit disables row limiting for internal aggregate reads. User-facing
// list endpoints keep the capped default.
const NoLimit = -1

type ListUsersParams struct {
	TeamID *string
	Role   *string
	Limit  int
	Offset int
}

type ListAccountsParams struct {
	OwnerIDs []string
	Industry *string
	Limit    int
	Offset   int
}

type ListContactsParams struct {
	AccountID *string
	Limit     int
	Offset    int
}

type ListDealsParams struct {
	// OwnerIDs empty means no ownership filter (admin scope).
	OwnerIDs  []string
	Stages    []string
	AccountID *string
	Since     *time.Time
	OrderBy   string
	Asc       *bool
	Limit     int
	Offset    int
}

type ListActivitiesParams struct {
	CreatedBy *string
	DealIDs   []string
	Limit     int
	Offset    int
}

// ListSnapshotsParams selects one snapshot scope; empty owner and team mean
// the org-wide rows.
type ListSnapshotsParams struct {
	OwnerID string
	TeamID  string
	Limit   int
}

type ListLeadsParams struct {
	OwnerIDs []string
	Status   *string
	Limit    int
	Offset   int
}

type ListAuditParams struct {
	EntityType *string
	EntityID   *string
	UserID     *string
	Limit      int
	Offset     int
}
