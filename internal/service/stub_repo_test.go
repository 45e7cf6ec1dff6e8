package service

import (
	"context"

	"gorm.io/gorm"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only the subset the service tests
// exercise holds real data; writes are recorded for assertions.
type stubRepo struct {
	users            map[string]models.User
	teamMembers      map[string][]string
	deals            []models.Deal
	activitiesByDeal map[string][]models.Activity
	recent           []models.Activity
	insightByDeal    map[string]models.Insight
	setting          *models.Setting

	dealListParams    []repository.ListDealsParams
	upsertedInsights  []models.Insight
	upsertedSnapshots []models.ForecastSnapshot
	upsertedSettings  []models.Setting
	scoreUpdates      map[string]scoreUpdate
}

type scoreUpdate struct {
	prob float64
	risk string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:            map[string]models.User{},
		teamMembers:      map[string][]string{},
		activitiesByDeal: map[string][]models.Activity{},
		insightByDeal:    map[string]models.Insight{},
		scoreUpdates:     map[string]scoreUpdate{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error { return nil }
func (s *stubRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}
func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (s *stubRepo) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	return nil, nil
}
func (s *stubRepo) UpdateUserFields(ctx context.Context, id string, updates map[string]any) error {
	return nil
}
func (s *stubRepo) ListUserIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	return s.teamMembers[teamID], nil
}
func (s *stubRepo) CreateTeam(ctx context.Context, item *models.Team) error { return nil }
func (s *stubRepo) ListTeams(ctx context.Context) ([]models.Team, error)    { return nil, nil }

func (s *stubRepo) CreateAccount(ctx context.Context, item *models.Account) error { return nil }
func (s *stubRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return nil, nil
}
func (s *stubRepo) ListAccounts(ctx context.Context, params repository.ListAccountsParams) ([]models.Account, error) {
	return nil, nil
}
func (s *stubRepo) UpdateAccountFields(ctx context.Context, id string, updates map[string]any) error {
	return nil
}
func (s *stubRepo) DeleteAccount(ctx context.Context, id string) error { return nil }
func (s *stubRepo) CreateContact(ctx context.Context, item *models.Contact) error {
	return nil
}
func (s *stubRepo) ListContactsByAccountID(ctx context.Context, accountID string) ([]models.Contact, error) {
	return nil, nil
}
func (s *stubRepo) ListContacts(ctx context.Context, params repository.ListContactsParams) ([]models.Contact, error) {
	return nil, nil
}

func (s *stubRepo) CreateDeal(ctx context.Context, item *models.Deal) error { return nil }
func (s *stubRepo) GetDealByID(ctx context.Context, id string) (*models.Deal, error) {
	for _, d := range s.deals {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}
func (s *stubRepo) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	s.dealListParams = append(s.dealListParams, params)
	var out []models.Deal
	for _, d := range s.deals {
		if len(params.OwnerIDs) > 0 && !containsString(params.OwnerIDs, d.OwnerID) {
			continue
		}
		if len(params.Stages) > 0 && !containsString(params.Stages, d.Stage) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
func (s *stubRepo) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	items, _ := s.ListDeals(ctx, params)
	return int64(len(items)), nil
}
func (s *stubRepo) ListDealsByAccountID(ctx context.Context, accountID string) ([]models.Deal, error) {
	return nil, nil
}
func (s *stubRepo) UpdateDealFields(ctx context.Context, id string, updates map[string]any) error {
	return nil
}
func (s *stubRepo) UpdateDealScore(ctx context.Context, id string, closeProbability float64, riskLevel string) error {
	s.scoreUpdates[id] = scoreUpdate{prob: closeProbability, risk: riskLevel}
	return nil
}
func (s *stubRepo) DeleteDeal(ctx context.Context, id string) error { return nil }

func (s *stubRepo) CreateActivity(ctx context.Context, item *models.Activity) error { return nil }
func (s *stubRepo) ListActivitiesByDealID(ctx context.Context, dealID string) ([]models.Activity, error) {
	return s.activitiesByDeal[dealID], nil
}
func (s *stubRepo) CountActivitiesByDealID(ctx context.Context, dealID string) (int64, error) {
	return int64(len(s.activitiesByDeal[dealID])), nil
}
func (s *stubRepo) ListRecentActivities(ctx context.Context, params repository.ListActivitiesParams) ([]models.Activity, error) {
	out := s.recent
	if params.CreatedBy != nil {
		out = nil
		for _, a := range s.recent {
			if a.CreatedBy == *params.CreatedBy {
				out = append(out, a)
			}
		}
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *stubRepo) UpsertInsight(ctx context.Context, item *models.Insight) error {
	s.upsertedInsights = append(s.upsertedInsights, *item)
	s.insightByDeal[item.DealID] = *item
	return nil
}
func (s *stubRepo) GetInsightByDealID(ctx context.Context, dealID string) (*models.Insight, error) {
	if in, ok := s.insightByDeal[dealID]; ok {
		return &in, nil
	}
	return nil, nil
}

func (s *stubRepo) UpsertForecastSnapshot(ctx context.Context, item *models.ForecastSnapshot) error {
	s.upsertedSnapshots = append(s.upsertedSnapshots, *item)
	return nil
}
func (s *stubRepo) ListForecastSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.ForecastSnapshot, error) {
	return nil, nil
}

func (s *stubRepo) CreateLead(ctx context.Context, item *models.Lead) error { return nil }
func (s *stubRepo) GetLeadByID(ctx context.Context, id string) (*models.Lead, error) {
	return nil, nil
}
func (s *stubRepo) ListLeads(ctx context.Context, params repository.ListLeadsParams) ([]models.Lead, error) {
	return nil, nil
}
func (s *stubRepo) UpdateLeadFields(ctx context.Context, id string, updates map[string]any) error {
	return nil
}

func (s *stubRepo) InsertAuditEntry(ctx context.Context, item *models.AuditEntry) error { return nil }
func (s *stubRepo) ListAuditEntries(ctx context.Context, params repository.ListAuditParams) ([]models.AuditEntry, error) {
	return nil, nil
}

func (s *stubRepo) GetSetting(ctx context.Context) (*models.Setting, error) {
	if s.setting == nil {
		return nil, nil
	}
	out := *s.setting
	return &out, nil
}
func (s *stubRepo) UpsertSetting(ctx context.Context, item *models.Setting) error {
	s.upsertedSettings = append(s.upsertedSettings, *item)
	cp := *item
	s.setting = &cp
	return nil
}

func (s *stubRepo) TruncateAll(ctx context.Context) error { return nil }

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
