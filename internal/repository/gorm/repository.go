package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Users and teams --------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.User{})
	if params.TeamID != nil && strings.TrimSpace(*params.TeamID) != "" {
		query = query.Where("team_id = ?", strings.TrimSpace(*params.TeamID))
	}
	if params.Role != nil && strings.TrimSpace(*params.Role) != "" {
		query = query.Where("role = ?", strings.TrimSpace(*params.Role))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.User
	if err := query.Order("created_at asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateUserFields(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) ListUserIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("team_id = ?", teamID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) CreateTeam(ctx context.Context, item *models.Team) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Team
	if err := s.db.WithContext(ctx).Model(&models.Team{}).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Accounts and contacts --------------------------------------------------

func (s *Store) CreateAccount(ctx context.Context, item *models.Account) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAccounts(ctx context.Context, params repository.ListAccountsParams) ([]models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Account{})
	if len(params.OwnerIDs) > 0 {
		query = query.Where("owner_id IN ?", params.OwnerIDs)
	}
	if params.Industry != nil && strings.TrimSpace(*params.Industry) != "" {
		query = query.Where("industry = ?", strings.TrimSpace(*params.Industry))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Account
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateAccountFields(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{}).Error
}

func (s *Store) CreateContact(ctx context.Context, item *models.Contact) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListContactsByAccountID(ctx context.Context, accountID string) ([]models.Contact, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Contact
	if err := s.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("account_id = ?", accountID).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListContacts(ctx context.Context, params repository.ListContactsParams) ([]models.Contact, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Contact{})
	if params.AccountID != nil && strings.TrimSpace(*params.AccountID) != "" {
		query = query.Where("account_id = ?", strings.TrimSpace(*params.AccountID))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Contact
	if err := query.Order("name asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Deals ------------------------------------------------------------------

func (s *Store) CreateDeal(ctx context.Context, item *models.Deal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetDealByID(ctx context.Context, id string) (*models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Deal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func dealListQuery(query *gorm.DB, params repository.ListDealsParams) *gorm.DB {
	if len(params.OwnerIDs) > 0 {
		query = query.Where("owner_id IN ?", params.OwnerIDs)
	}
	if len(params.Stages) > 0 {
		query = query.Where("stage IN ?", params.Stages)
	}
	if params.AccountID != nil && strings.TrimSpace(*params.AccountID) != "" {
		query = query.Where("account_id = ?", strings.TrimSpace(*params.AccountID))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("updated_at >= ?", *params.Since)
	}
	return query
}

func (s *Store) ListDeals(ctx context.Context, params repository.ListDealsParams) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := dealListQuery(s.db.WithContext(ctx).Model(&models.Deal{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Deal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountDeals(ctx context.Context, params repository.ListDealsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := dealListQuery(s.db.WithContext(ctx).Model(&models.Deal{}), params)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListDealsByAccountID(ctx context.Context, accountID string) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Deal
	if err := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateDealFields(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Deal{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) UpdateDealScore(ctx context.Context, id string, closeProbability float64, riskLevel string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"close_probability": closeProbability,
			"risk_level":        riskLevel,
		}).Error
}

func (s *Store) DeleteDeal(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deal_id = ?", id).Delete(&models.Insight{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Deal{}).Error
	})
}

// --- Activities -------------------------------------------------------------

func (s *Store) CreateActivity(ctx context.Context, item *models.Activity) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListActivitiesByDealID(ctx context.Context, dealID string) ([]models.Activity, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Activity
	if err := s.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("deal_id = ?", dealID).
		Order("occurred_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountActivitiesByDealID(ctx context.Context, dealID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("deal_id = ?", dealID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListRecentActivities(ctx context.Context, params repository.ListActivitiesParams) ([]models.Activity, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Activity{})
	if params.CreatedBy != nil && strings.TrimSpace(*params.CreatedBy) != "" {
		query = query.Where("created_by = ?", strings.TrimSpace(*params.CreatedBy))
	}
	if len(params.DealIDs) > 0 {
		query = query.Where("deal_id IN ?", params.DealIDs)
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Activity
	if err := query.Order("occurred_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Insights ---------------------------------------------------------------

func (s *Store) UpsertInsight(ctx context.Context, item *models.Insight) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "deal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"close_probability",
			"risk_level",
			"risk_factors",
			"next_best_actions",
			"email_subject",
			"email_body",
			"summary",
			"model_version",
			"created_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetInsightByDealID(ctx context.Context, dealID string) (*models.Insight, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Insight
	err := s.db.WithContext(ctx).Where("deal_id = ?", dealID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Forecast snapshots -----------------------------------------------------

func (s *Store) UpsertForecastSnapshot(ctx context.Context, item *models.ForecastSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "period_month"}, {Name: "owner_id"}, {Name: "team_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"period_start",
			"predicted_revenue",
			"optimistic",
			"pessimistic",
			"confidence",
			"model_version",
			"created_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListForecastSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.ForecastSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.ForecastSnapshot{}).
		Where("owner_id = ?", params.OwnerID).
		Where("team_id = ?", params.TeamID)
	limit := normalizeLimit(params.Limit, 24)
	var items []models.ForecastSnapshot
	if err := query.Order("period_start asc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Leads ------------------------------------------------------------------

func (s *Store) CreateLead(ctx context.Context, item *models.Lead) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetLeadByID(ctx context.Context, id string) (*models.Lead, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListLeads(ctx context.Context, params repository.ListLeadsParams) ([]models.Lead, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Lead{})
	if len(params.OwnerIDs) > 0 {
		query = query.Where("owner_id IN ?", params.OwnerIDs)
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Lead
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateLeadFields(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Lead{}).Where("id = ?", id).Updates(updates).Error
}

// --- Audit trail ------------------------------------------------------------

func (s *Store) InsertAuditEntry(ctx context.Context, item *models.AuditEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAuditEntries(ctx context.Context, params repository.ListAuditParams) ([]models.AuditEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.AuditEntry{})
	if params.EntityType != nil && strings.TrimSpace(*params.EntityType) != "" {
		query = query.Where("entity_type = ?", strings.TrimSpace(*params.EntityType))
	}
	if params.EntityID != nil && strings.TrimSpace(*params.EntityID) != "" {
		query = query.Where("entity_id = ?", strings.TrimSpace(*params.EntityID))
	}
	if params.UserID != nil && strings.TrimSpace(*params.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*params.UserID))
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.AuditEntry
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Settings ---------------------------------------------------------------

func (s *Store) GetSetting(ctx context.Context) (*models.Setting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Setting
	err := s.db.WithContext(ctx).Where("id = ?", models.SettingsID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertSetting(ctx context.Context, item *models.Setting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		item.ID = models.SettingsID
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ai_mode",
			"model_version",
			"last_trained_at",
			"updated_at",
		}),
	}).Create(item).Error
}

// --- Dev reset --------------------------------------------------------------

func (s *Store) TruncateAll(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	tables := []string{
		"audit_trail",
		"forecast_snapshots",
		"deal_insights",
		"activities",
		"leads",
		"deals",
		"contacts",
		"accounts",
		"settings",
		"users",
		"teams",
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit < 0 {
		// repository.NoLimit; gorm cancels the clause on -1.
		return -1
	}
	if limit == 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
