// Package seed resets the database to a known demo dataset: two teams,
// four users, a book of accounts and a pipeline with enough WON/LOST
// history to exercise forecasting and retraining.
package seed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

// SeededUser is the login summary returned after a seed run.
type SeededUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Seeder struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Clock  clock.Clock
}

// Run wipes every table and reloads the demo dataset. All demo users share
// the password "password123".
func (s *Seeder) Run(ctx context.Context) ([]SeededUser, error) {
	if err := s.Repo.TruncateAll(ctx); err != nil {
		return nil, err
	}

	now := clock.OrSystem(s.Clock).Now()
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }
	daysFromNow := func(d int) time.Time { return now.Add(time.Duration(d) * 24 * time.Hour) }

	teams := []models.Team{
		{ID: "team-1", Name: "Sales Team Alpha", CreatedAt: now},
		{ID: "team-2", Name: "Sales Team Beta", CreatedAt: now},
	}
	for i := range teams {
		if err := s.Repo.CreateTeam(ctx, &teams[i]); err != nil {
			return nil, err
		}
	}

	pw, err := auth.HashPassword("password123")
	if err != nil {
		return nil, err
	}
	team1, team2 := "team-1", "team-2"
	users := []models.User{
		{ID: "user-admin", Name: "Alex Admin", Email: "admin@forecastcrm.com", PasswordHash: pw, Role: models.RoleAdmin, CreatedAt: now},
		{ID: "user-manager", Name: "Morgan Manager", Email: "manager@forecastcrm.com", PasswordHash: pw, Role: models.RoleManager, TeamID: &team1, CreatedAt: now},
		{ID: "user-rep", Name: "Riley Rep", Email: "rep@forecastcrm.com", PasswordHash: pw, Role: models.RoleRep, TeamID: &team1, CreatedAt: now},
		{ID: "user-rep2", Name: "Sam Sales", Email: "sam@forecastcrm.com", PasswordHash: pw, Role: models.RoleRep, TeamID: &team2, CreatedAt: now},
	}
	for i := range users {
		if err := s.Repo.CreateUser(ctx, &users[i]); err != nil {
			return nil, err
		}
	}

	accounts := []models.Account{
		{ID: "acc-1", Name: "Acme Corporation", Domain: "acme.com", Industry: "Technology", Country: "USA", OwnerID: "user-rep", CreatedAt: date(2024, 9, 15)},
		{ID: "acc-2", Name: "TechFlow Inc", Domain: "techflow.io", Industry: "SaaS", Country: "USA", OwnerID: "user-rep", CreatedAt: date(2024, 10, 1)},
		{ID: "acc-3", Name: "GlobalSoft Ltd", Domain: "globalsoft.co.uk", Industry: "Enterprise Software", Country: "UK", OwnerID: "user-rep", CreatedAt: date(2024, 8, 20)},
		{ID: "acc-4", Name: "DataDrive Analytics", Domain: "datadrive.com", Industry: "Analytics", Country: "USA", OwnerID: "user-rep2", CreatedAt: date(2024, 11, 5)},
		{ID: "acc-5", Name: "CloudNine Solutions", Domain: "cloudnine.io", Industry: "Cloud Services", Country: "Canada", OwnerID: "user-rep", CreatedAt: date(2024, 7, 10)},
		{ID: "acc-6", Name: "FinServ Global", Domain: "finserv.com", Industry: "Financial Services", Country: "USA", OwnerID: "user-rep2", CreatedAt: date(2024, 6, 1)},
		{ID: "acc-7", Name: "MedTech Innovations", Domain: "medtech.io", Industry: "Healthcare", Country: "Germany", OwnerID: "user-rep", CreatedAt: date(2024, 12, 1)},
		{ID: "acc-8", Name: "RetailMax Group", Domain: "retailmax.com", Industry: "Retail", Country: "USA", OwnerID: "user-rep2", CreatedAt: date(2025, 1, 10)},
	}
	for i := range accounts {
		if err := s.Repo.CreateAccount(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}

	contacts := []models.Contact{
		{ID: "con-1", AccountID: "acc-1", Name: "John Smith", Email: "john@acme.com", Phone: "+1-555-0101", Title: "VP of Engineering"},
		{ID: "con-2", AccountID: "acc-1", Name: "Sarah Johnson", Email: "sarah@acme.com", Phone: "+1-555-0102", Title: "CTO"},
		{ID: "con-3", AccountID: "acc-2", Name: "Mike Chen", Email: "mike@techflow.io", Phone: "+1-555-0201", Title: "Director of Operations"},
		{ID: "con-4", AccountID: "acc-3", Name: "Emma Wilson", Email: "emma@globalsoft.co.uk", Phone: "+44-20-7946-0301", Title: "Head of IT"},
		{ID: "con-5", AccountID: "acc-4", Name: "David Park", Email: "david@datadrive.com", Phone: "+1-555-0401", Title: "CEO"},
		{ID: "con-6", AccountID: "acc-5", Name: "Lisa Brown", Email: "lisa@cloudnine.io", Phone: "+1-555-0501", Title: "VP of Sales"},
		{ID: "con-7", AccountID: "acc-6", Name: "Robert Taylor", Email: "robert@finserv.com", Phone: "+1-555-0601", Title: "CFO"},
		{ID: "con-8", AccountID: "acc-7", Name: "Anna Mueller", Email: "anna@medtech.io", Phone: "+49-30-12345601", Title: "Procurement Lead"},
		{ID: "con-9", AccountID: "acc-8", Name: "Tom Harris", Email: "tom@retailmax.com", Phone: "+1-555-0801", Title: "COO"},
	}
	for i := range contacts {
		if err := s.Repo.CreateContact(ctx, &contacts[i]); err != nil {
			return nil, err
		}
	}

	deals := []models.Deal{
		{ID: "deal-1", AccountID: "acc-1", Name: "Acme Enterprise License", Stage: models.StageNegotiation, Amount: usd(125000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(15)), OwnerID: "user-rep", CreatedAt: daysAgo(45), UpdatedAt: daysAgo(2)},
		{ID: "deal-2", AccountID: "acc-2", Name: "TechFlow Platform Upgrade", Stage: models.StageProposal, Amount: usd(85000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(30)), OwnerID: "user-rep", CreatedAt: daysAgo(30), UpdatedAt: daysAgo(5)},
		{ID: "deal-3", AccountID: "acc-3", Name: "GlobalSoft Cloud Migration", Stage: models.StageQualified, Amount: usd(250000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(60)), OwnerID: "user-rep", CreatedAt: daysAgo(20), UpdatedAt: daysAgo(3)},
		{ID: "deal-4", AccountID: "acc-4", Name: "DataDrive Analytics Suite", Stage: models.StageProspecting, Amount: usd(45000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(90)), OwnerID: "user-rep2", CreatedAt: daysAgo(10), UpdatedAt: daysAgo(1)},
		{ID: "deal-5", AccountID: "acc-5", Name: "CloudNine Infrastructure", Stage: models.StageNegotiation, Amount: usd(180000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(7)), OwnerID: "user-rep", CreatedAt: daysAgo(60), UpdatedAt: daysAgo(1)},
		{ID: "deal-6", AccountID: "acc-6", Name: "FinServ Compliance Tool", Stage: models.StageProposal, Amount: usd(95000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(45)), OwnerID: "user-rep2", CreatedAt: daysAgo(25), UpdatedAt: daysAgo(4)},
		{ID: "deal-7", AccountID: "acc-7", Name: "MedTech Patient Portal", Stage: models.StageProspecting, Amount: usd(320000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(120)), OwnerID: "user-rep", CreatedAt: daysAgo(7), UpdatedAt: daysAgo(1)},
		{ID: "deal-8", AccountID: "acc-8", Name: "RetailMax POS System", Stage: models.StageQualified, Amount: usd(67000), Currency: "USD", ExpectedCloseDate: timePtr(daysFromNow(50)), OwnerID: "user-rep2", CreatedAt: daysAgo(15), UpdatedAt: daysAgo(2)},
		{ID: "deal-w1", AccountID: "acc-1", Name: "Acme Initial License", Stage: models.StageWon, Amount: usd(50000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(120)), OwnerID: "user-rep", CreatedAt: daysAgo(180), UpdatedAt: daysAgo(120)},
		{ID: "deal-w2", AccountID: "acc-5", Name: "CloudNine Starter Pack", Stage: models.StageWon, Amount: usd(35000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(90)), OwnerID: "user-rep", CreatedAt: daysAgo(150), UpdatedAt: daysAgo(90)},
		{ID: "deal-w3", AccountID: "acc-2", Name: "TechFlow Basic Setup", Stage: models.StageWon, Amount: usd(28000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(60)), OwnerID: "user-rep", CreatedAt: daysAgo(120), UpdatedAt: daysAgo(60)},
		{ID: "deal-w4", AccountID: "acc-6", Name: "FinServ Pilot Program", Stage: models.StageWon, Amount: usd(42000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(30)), OwnerID: "user-rep2", CreatedAt: daysAgo(90), UpdatedAt: daysAgo(30)},
		{ID: "deal-w5", AccountID: "acc-4", Name: "DataDrive Quick Start", Stage: models.StageWon, Amount: usd(18000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(150)), OwnerID: "user-rep2", CreatedAt: daysAgo(210), UpdatedAt: daysAgo(150)},
		{ID: "deal-l1", AccountID: "acc-3", Name: "GlobalSoft Legacy System", Stage: models.StageLost, Amount: usd(200000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(45)), OwnerID: "user-rep", CreatedAt: daysAgo(100), UpdatedAt: daysAgo(45)},
		{ID: "deal-l2", AccountID: "acc-8", Name: "RetailMax Inventory Tool", Stage: models.StageLost, Amount: usd(55000), Currency: "USD", ExpectedCloseDate: timePtr(daysAgo(75)), OwnerID: "user-rep2", CreatedAt: daysAgo(130), UpdatedAt: daysAgo(75)},
	}
	for i := range deals {
		if err := s.Repo.CreateDeal(ctx, &deals[i]); err != nil {
			return nil, err
		}
	}

	activities := []models.Activity{
		{ID: "act-1", DealID: "deal-1", Type: models.ActivityCall, Content: "Discovery call with John Smith. Discussed their current infrastructure pain points and scalability needs. Very interested in our enterprise features.", OccurredAt: daysAgo(40), CreatedBy: "user-rep"},
		{ID: "act-2", DealID: "deal-1", Type: models.ActivityEmail, Content: "Sent product overview deck and pricing sheet. Included case studies from similar tech companies.", OccurredAt: daysAgo(35), CreatedBy: "user-rep"},
		{ID: "act-3", DealID: "deal-1", Type: models.ActivityMeeting, Content: "Product demo with John and Sarah (CTO). Great engagement, they asked detailed questions about API integration and security.", OccurredAt: daysAgo(25), CreatedBy: "user-rep"},
		{ID: "act-4", DealID: "deal-1", Type: models.ActivityNote, Content: "Champion (John) mentioned budget approval is expected next week. CTO wants a security audit report before signing.", OccurredAt: daysAgo(10), CreatedBy: "user-rep"},
		{ID: "act-5", DealID: "deal-1", Type: models.ActivityEmail, Content: "Sent security compliance documentation and SOC2 report. Scheduled follow-up for contract review.", OccurredAt: daysAgo(5), CreatedBy: "user-rep"},
		{ID: "act-6", DealID: "deal-2", Type: models.ActivityCall, Content: "Initial discussion with Mike Chen about upgrading their current platform. Current solution is slow and lacks reporting.", OccurredAt: daysAgo(28), CreatedBy: "user-rep"},
		{ID: "act-7", DealID: "deal-2", Type: models.ActivityMeeting, Content: "Technical assessment meeting. Reviewed their architecture and proposed migration path.", OccurredAt: daysAgo(20), CreatedBy: "user-rep"},
		{ID: "act-8", DealID: "deal-2", Type: models.ActivityEmail, Content: "Sent formal proposal with 3 pricing tiers. Recommended the Professional tier based on their needs.", OccurredAt: daysAgo(10), CreatedBy: "user-rep"},
		{ID: "act-9", DealID: "deal-3", Type: models.ActivityCall, Content: "Qualification call with Emma Wilson. They need cloud migration for 50+ legacy applications.", OccurredAt: daysAgo(18), CreatedBy: "user-rep"},
		{ID: "act-10", DealID: "deal-3", Type: models.ActivityNote, Content: "Large opportunity but complex requirements. Need to involve solutions architect for detailed scoping.", OccurredAt: daysAgo(15), CreatedBy: "user-rep"},
		{ID: "act-11", DealID: "deal-4", Type: models.ActivityEmail, Content: "Cold outreach to David Park. Highlighted how our analytics suite helped similar companies increase revenue 30%.", OccurredAt: daysAgo(8), CreatedBy: "user-rep2"},
		{ID: "act-12", DealID: "deal-5", Type: models.ActivityCall, Content: "Negotiation call with Lisa Brown. Discussing payment terms and implementation timeline.", OccurredAt: daysAgo(5), CreatedBy: "user-rep"},
		{ID: "act-13", DealID: "deal-5", Type: models.ActivityMeeting, Content: "Executive alignment meeting. VP and Director both present. Agreed on scope, finalizing contract terms.", OccurredAt: daysAgo(3), CreatedBy: "user-rep"},
		{ID: "act-14", DealID: "deal-5", Type: models.ActivityNote, Content: "Lisa confirmed verbal approval from CEO. Legal review in progress, expect signed contract by end of week.", OccurredAt: daysAgo(1), CreatedBy: "user-rep"},
		{ID: "act-15", DealID: "deal-6", Type: models.ActivityCall, Content: "Discussion with Robert Taylor about compliance requirements. They need SOX compliance features.", OccurredAt: daysAgo(22), CreatedBy: "user-rep2"},
		{ID: "act-16", DealID: "deal-6", Type: models.ActivityEmail, Content: "Sent proposal with compliance module pricing and implementation plan.", OccurredAt: daysAgo(12), CreatedBy: "user-rep2"},
		{ID: "act-17", DealID: "deal-7", Type: models.ActivityEmail, Content: "Initial outreach to Anna Mueller about patient portal solution for German healthcare market.", OccurredAt: daysAgo(5), CreatedBy: "user-rep"},
		{ID: "act-18", DealID: "deal-8", Type: models.ActivityCall, Content: "Qualification call with Tom Harris. RetailMax needs modern POS system for 200+ stores.", OccurredAt: daysAgo(12), CreatedBy: "user-rep2"},
		{ID: "act-19", DealID: "deal-w1", Type: models.ActivityNote, Content: "Deal closed! Initial license signed for 1-year term.", OccurredAt: daysAgo(120), CreatedBy: "user-rep"},
		{ID: "act-20", DealID: "deal-w2", Type: models.ActivityNote, Content: "Contract signed. CloudNine starts with starter pack, expansion planned for Q3.", OccurredAt: daysAgo(90), CreatedBy: "user-rep"},
		{ID: "act-21", DealID: "deal-w3", Type: models.ActivityNote, Content: "TechFlow signed! Fast sales cycle. Good reference potential.", OccurredAt: daysAgo(60), CreatedBy: "user-rep"},
		{ID: "act-22", DealID: "deal-w4", Type: models.ActivityNote, Content: "FinServ pilot approved and signed. 6-month evaluation period.", OccurredAt: daysAgo(30), CreatedBy: "user-rep2"},
		{ID: "act-23", DealID: "deal-l1", Type: models.ActivityNote, Content: "Lost to competitor. Budget constraints and they chose a cheaper option.", OccurredAt: daysAgo(45), CreatedBy: "user-rep"},
		{ID: "act-24", DealID: "deal-l2", Type: models.ActivityNote, Content: "Project deprioritized by client. May revisit in Q4.", OccurredAt: daysAgo(75), CreatedBy: "user-rep2"},
	}
	for i := range activities {
		if err := s.Repo.CreateActivity(ctx, &activities[i]); err != nil {
			return nil, err
		}
	}

	leads := []models.Lead{
		{ID: "lead-1", AccountID: strPtr("acc-1"), ContactID: strPtr("con-1"), Source: "Website", Status: models.LeadConverted, Score: 85, OwnerID: "user-rep", CreatedAt: daysAgo(200)},
		{ID: "lead-2", AccountID: strPtr("acc-7"), ContactID: strPtr("con-8"), Source: "Conference", Status: models.LeadNew, Score: 60, OwnerID: "user-rep", CreatedAt: daysAgo(7)},
		{ID: "lead-3", AccountID: strPtr("acc-4"), ContactID: strPtr("con-5"), Source: "Referral", Status: models.LeadConverted, Score: 90, OwnerID: "user-rep2", CreatedAt: daysAgo(220)},
		{ID: "lead-4", Source: "LinkedIn", Status: models.LeadNew, Score: 40, OwnerID: "user-rep", CreatedAt: daysAgo(3)},
	}
	for i := range leads {
		if err := s.Repo.CreateLead(ctx, &leads[i]); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.UpsertSetting(ctx, &models.Setting{
		ID:           models.SettingsID,
		AIMode:       "mock",
		ModelVersion: "1.0.0",
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("database seeded",
			zap.Int("users", len(users)),
			zap.Int("accounts", len(accounts)),
			zap.Int("deals", len(deals)))
	}

	out := make([]SeededUser, 0, len(users))
	for _, u := range users {
		out = append(out, SeededUser{Email: u.Email, Role: u.Role})
	}
	return out, nil
}

func usd(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(v string) *string {
	return &v
}
