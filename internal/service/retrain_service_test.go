package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"forecastcrm/internal/clock"
	"forecastcrm/internal/models"
	"forecastcrm/internal/repository"
)

func terminalDeal(id, stage string) models.Deal {
	return models.Deal{ID: id, Stage: stage, Amount: decimal.NewFromInt(10000)}
}

func TestRetrainForbiddenForReps(t *testing.T) {
	svc := &RetrainService{Repo: newStubRepo()}
	_, err := svc.Retrain(context.Background(), &models.User{ID: "user-rep", Role: models.RoleRep})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("rep err = %v, want ErrForbidden", err)
	}
	_, err = svc.Retrain(context.Background(), nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("nil user err = %v, want ErrForbidden", err)
	}
}

func TestRetrainNotEnoughLabeledDeals(t *testing.T) {
	repo := newStubRepo()
	repo.deals = []models.Deal{
		terminalDeal("deal-w1", models.StageWon),
		terminalDeal("deal-l1", models.StageLost),
	}
	svc := &RetrainService{Repo: repo}
	got, err := svc.Retrain(context.Background(), &models.User{ID: "user-admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Retrain error: %v", err)
	}
	if got.Trained {
		t.Fatal("trained = true with too little labeled data")
	}
	if got.DealCount != 2 {
		t.Fatalf("dealCount = %d, want 2", got.DealCount)
	}
	want := "Not enough labeled data for training (need at least 5 WON/LOST deals)"
	if got.Message != want {
		t.Fatalf("message = %q, want %q", got.Message, want)
	}
	if len(repo.upsertedSettings) != 0 || len(repo.scoreUpdates) != 0 {
		t.Fatal("nothing should be written when training is skipped")
	}
}

func TestRetrainRescoresActiveDeals(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.deals = []models.Deal{
		terminalDeal("deal-w1", models.StageWon),
		terminalDeal("deal-w2", models.StageWon),
		terminalDeal("deal-w3", models.StageWon),
		terminalDeal("deal-l1", models.StageLost),
		terminalDeal("deal-l2", models.StageLost),
		{
			ID:        "deal-a",
			Stage:     models.StageQualified,
			Amount:    decimal.NewFromInt(50000),
			CreatedAt: now.AddDate(0, 0, -10),
		},
		{
			ID:        "deal-b",
			Stage:     models.StageProspecting,
			Amount:    decimal.NewFromInt(300000),
			CreatedAt: now.AddDate(0, 0, -10),
		},
	}
	repo.activitiesByDeal["deal-a"] = make([]models.Activity, 6)
	repo.setting = &models.Setting{ID: models.SettingsID, AIMode: "live", ModelVersion: "1.0.0"}

	svc := &RetrainService{Repo: repo, Clock: clock.Fixed(now)}
	got, err := svc.Retrain(context.Background(), &models.User{ID: "user-manager", Role: models.RoleManager})
	if err != nil {
		t.Fatalf("Retrain error: %v", err)
	}
	if !got.Trained {
		t.Fatal("trained = false, want true")
	}
	if got.Message != "Model retrained successfully (mock mode)" {
		t.Fatalf("message = %q", got.Message)
	}
	if got.DealCount != 5 || got.UpdatedDeals != 2 {
		t.Fatalf("counts = %d labeled / %d updated, want 5 / 2", got.DealCount, got.UpdatedDeals)
	}

	a := repo.scoreUpdates["deal-a"]
	if a.prob != 0.35 || a.risk != models.RiskMedium {
		t.Fatalf("deal-a score = %+v, want 0.35 MEDIUM", a)
	}
	b := repo.scoreUpdates["deal-b"]
	if b.prob != 0.12 || b.risk != models.RiskHigh {
		t.Fatalf("deal-b score = %+v, want 0.12 HIGH", b)
	}

	if len(repo.upsertedSettings) != 1 {
		t.Fatalf("settings upserts = %d, want 1", len(repo.upsertedSettings))
	}
	setting := repo.upsertedSettings[0]
	if setting.AIMode != "live" {
		t.Fatalf("aiMode = %q, existing mode should be preserved", setting.AIMode)
	}
	wantVersion := fmt.Sprintf("1.0.%d", now.UnixMilli())
	if setting.ModelVersion != wantVersion {
		t.Fatalf("modelVersion = %q, want %q", setting.ModelVersion, wantVersion)
	}
	if setting.LastTrainedAt == nil || !setting.LastTrainedAt.Equal(now) {
		t.Fatalf("lastTrainedAt = %v, want %v", setting.LastTrainedAt, now)
	}

	for _, params := range repo.dealListParams {
		if params.Limit != repository.NoLimit {
			t.Fatalf("retrain read a capped deal page: %+v", params)
		}
	}
}
