package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

type fakeBalances struct {
	balance float64
	err     error
}

func (f fakeBalances) Balance(context.Context, string) (float64, error) {
	return f.balance, f.err
}

var alertNow = time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC)

func newAlertService(llm Gateway, configs *fakeAlertConfigStore, balances BalanceSource) *AlertService {
	svc := NewAlertService(llm, configs, balances, zap.NewNop())
	svc.now = func() time.Time { return alertNow }
	return svc
}

func spend(amount float64, at time.Time, description string) models.Transaction {
	return models.Transaction{Amount: amount, Timestamp: at, Description: description}
}

func TestThresholdAlert(t *testing.T) {
	configs := &fakeAlertConfigStore{}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{})
	ctx := context.Background()

	cfg := &models.AlertConfiguration{Username: "alice", ThresholdValue: 100}
	applyAlertDefaults(cfg)
	if err := svc.CreateConfiguration(ctx, cfg); err != nil {
		t.Fatalf("CreateConfiguration() error = %v", err)
	}

	txs := []models.Transaction{
		spend(100, alertNow.Add(-2*time.Hour), ""),
		spend(50, alertNow.Add(-time.Hour), ""),
		// Yesterday, outside the daily window.
		spend(500, alertNow.Add(-20*time.Hour), ""),
	}

	alerts := svc.CheckAlerts(ctx, txs, "alice")
	if len(alerts) != 1 {
		t.Fatalf("CheckAlerts() returned %d alerts, want 1: %+v", len(alerts), alerts)
	}
	alert := alerts[0]
	if alert.Type != models.AlertSpendingThreshold || alert.Priority != 3 {
		t.Errorf("alert = %+v", alert)
	}
	data, ok := alert.Data.(models.ThresholdAlertData)
	if !ok {
		t.Fatalf("Data = %#v", alert.Data)
	}
	if data.ActualSpending != 150 || data.ExcessAmount != 50 || data.Period != models.PeriodDaily {
		t.Errorf("Data = %+v", data)
	}
	if alert.AlertConfigID == nil || *alert.AlertConfigID != cfg.ID {
		t.Errorf("AlertConfigID = %v, want %v", alert.AlertConfigID, cfg.ID)
	}
	if alert.Description != "You've spent $150.00 this daily, exceeding your threshold of $100.00" {
		t.Errorf("Description = %q", alert.Description)
	}
}

func TestThresholdNotExceeded(t *testing.T) {
	configs := &fakeAlertConfigStore{configs: []*models.AlertConfiguration{{
		Username: "alice", AlertType: models.AlertSpendingThreshold, AlertName: "Weekly",
		ThresholdValue: 100, ThresholdPeriod: models.PeriodWeekly, IsActive: true,
	}}}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{})

	txs := []models.Transaction{spend(100, alertNow.Add(-48*time.Hour), "")}
	if alerts := svc.CheckAlerts(context.Background(), txs, "alice"); len(alerts) != 0 {
		t.Errorf("spending equal to the threshold should not alert: %+v", alerts)
	}
}

func TestCategoryBudgetAlert(t *testing.T) {
	configs := &fakeAlertConfigStore{configs: []*models.AlertConfiguration{{
		Username: "alice", AlertType: models.AlertCategoryBudget, AlertName: "coffee",
		ThresholdValue: 10, ThresholdPeriod: models.PeriodWeekly, IsActive: true,
	}}}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{})

	txs := []models.Transaction{
		spend(8, alertNow.Add(-24*time.Hour), "Starbucks #123"),
		spend(6, alertNow.Add(-48*time.Hour), "Corner Cafe"),
		spend(90, alertNow.Add(-48*time.Hour), "Grocery store"),
	}

	alerts := svc.CheckAlerts(context.Background(), txs, "alice")
	if len(alerts) != 1 || alerts[0].Type != models.AlertCategoryBudget {
		t.Fatalf("alerts = %+v", alerts)
	}
	data := alerts[0].Data.(models.CategoryBudgetAlertData)
	if data.Category != "coffee" || data.ActualSpending != 14 || data.ExcessAmount != 4 {
		t.Errorf("Data = %+v", data)
	}
}

func TestLowBalanceFailureIsIsolated(t *testing.T) {
	configs := &fakeAlertConfigStore{configs: []*models.AlertConfiguration{
		{Username: "alice", AlertType: models.AlertLowBalance, AlertName: "Floor", ThresholdValue: 500, ThresholdPeriod: models.PeriodDaily, IsActive: true},
		{Username: "alice", AlertType: models.AlertSpendingThreshold, AlertName: "Daily", ThresholdValue: 10, ThresholdPeriod: models.PeriodDaily, IsActive: true},
	}}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{err: errors.New("ledger down")})

	alerts := svc.CheckAlerts(context.Background(), []models.Transaction{spend(20, alertNow, "")}, "alice")
	if len(alerts) != 1 || alerts[0].Type != models.AlertSpendingThreshold {
		t.Errorf("alerts = %+v, want only the threshold alert", alerts)
	}
}

func TestLowBalanceAlert(t *testing.T) {
	configs := &fakeAlertConfigStore{configs: []*models.AlertConfiguration{
		{Username: "alice", AlertType: models.AlertLowBalance, AlertName: "Floor", ThresholdValue: 500, ThresholdPeriod: models.PeriodDaily, IsActive: true},
	}}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{balance: 120})

	alerts := svc.CheckAlerts(context.Background(), []models.Transaction{spend(20, alertNow, "")}, "alice")
	if len(alerts) != 1 {
		t.Fatalf("alerts = %+v", alerts)
	}
	data := alerts[0].Data.(models.LowBalanceAlertData)
	if data.Deficit != 380 || alerts[0].Priority != 4 {
		t.Errorf("alert = %+v", alerts[0])
	}
}

func TestCheckAlertsEdgeCases(t *testing.T) {
	configs := &fakeAlertConfigStore{listErr: errors.New("accounts down")}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{})
	ctx := context.Background()

	if alerts := svc.CheckAlerts(ctx, nil, "alice"); alerts == nil || len(alerts) != 0 {
		t.Errorf("no transactions: alerts = %v, want empty", alerts)
	}
	if alerts := svc.CheckAlerts(ctx, []models.Transaction{spend(999, alertNow, "")}, "alice"); len(alerts) != 0 {
		t.Errorf("config failure: alerts = %v, want empty", alerts)
	}
}

func TestPatternAlerts(t *testing.T) {
	llm, _ := newGateway(map[string]string{
		"banking data for unusual_spending_detection": `{"unusual_patterns": [
			{"description": "Three large transfers in one hour", "data": {"count": 3}},
			{"data": {"count": 1}}
		]}`,
		"banking data for spending_improvement_analysis": `{"improvements": [
			{"description": "Dining spend is down", "is_positive": true},
			{"description": "Fees are up", "is_positive": false}
		]}`,
	})
	svc := newAlertService(llm, &fakeAlertConfigStore{}, fakeBalances{})

	amounts := make([]float64, 20)
	for i := range amounts {
		amounts[i] = 10
	}
	alerts := svc.CheckAlerts(context.Background(), transactionsWithAmounts(amounts...), "alice")

	var unusual, improvement []models.Alert
	for _, a := range alerts {
		switch a.Type {
		case models.AlertUnusualSpending:
			unusual = append(unusual, a)
		case models.AlertImprovement:
			improvement = append(improvement, a)
		}
	}
	if len(unusual) != 2 || unusual[1].Description != defaultUnusualDescription {
		t.Errorf("unusual alerts = %+v", unusual)
	}
	if len(improvement) != 1 || improvement[0].Description != "Dining spend is down" || improvement[0].Priority != 1 {
		t.Errorf("improvement alerts = %+v", improvement)
	}
}

func TestUpdateConfigurationValidation(t *testing.T) {
	configs := &fakeAlertConfigStore{}
	svc := newAlertService(offlineGateway(), configs, fakeBalances{})
	ctx := context.Background()

	cfg := &models.AlertConfiguration{Username: "alice"}
	applyAlertDefaults(cfg)
	if err := svc.CreateConfiguration(ctx, cfg); err != nil {
		t.Fatalf("CreateConfiguration() error = %v", err)
	}

	negative := -1.0
	bad := models.ThresholdPeriod("hourly")
	for name, patch := range map[string]models.AlertConfigPatch{
		"empty":    {},
		"negative": {ThresholdValue: &negative},
		"period":   {ThresholdPeriod: &bad},
	} {
		if err := svc.UpdateConfiguration(ctx, cfg.ID, "alice", patch); !errors.Is(err, ErrInvalidAlertConfig) {
			t.Errorf("%s: error = %v, want ErrInvalidAlertConfig", name, err)
		}
	}

	threshold := 250.0
	if err := svc.UpdateConfiguration(ctx, cfg.ID, "alice", models.AlertConfigPatch{ThresholdValue: &threshold}); err != nil {
		t.Fatalf("UpdateConfiguration() error = %v", err)
	}
	if configs.configs[0].ThresholdValue != 250 {
		t.Errorf("ThresholdValue = %v, want 250", configs.configs[0].ThresholdValue)
	}

	if err := svc.CreateConfiguration(ctx, &models.AlertConfiguration{Username: "alice", AlertType: "sms_blast", AlertName: "x", ThresholdPeriod: models.PeriodDaily}); !errors.Is(err, ErrInvalidAlertConfig) {
		t.Errorf("unknown alert type: error = %v", err)
	}
}
