package services

import (
	"context"
	"fmt"
	"time"

	"clarity/internal/core"
	"clarity/internal/scoring"
	"clarity/internal/storage"
)

// Dashboard is the assembled scoring view for one scope and period.
type Dashboard struct {
	InstitutionID       string                  `json:"institutionId,omitempty"`
	Period              string                  `json:"period"`
	CashControl         scoring.CashControlData `json:"cashControl"`
	CategoryBreakdown   scoring.Breakdown       `json:"categoryBreakdown"`
	Clarity             scoring.ClarityResult   `json:"clarity"`
	ClarityLabel        string                  `json:"clarityLabel"`
	ClaritySubtext      string                  `json:"claritySubtext"`
	MonthlyIncomeCents  int64                   `json:"monthlyIncomeCents"`
	MonthlySubCostCents int64                   `json:"monthlySubscriptionCostCents"`
	AnnualSubCostCents  int64                   `json:"annualSubscriptionCostCents"`
	SubscriptionLoadPct *float64                `json:"subscriptionLoadPct"`
	Insights            []scoring.Insight       `json:"insights"`
	GeneratedAt         time.Time               `json:"generatedAt"`
}

// DashboardService loads ledger data and runs the scoring engine over
// one scope. It is shared by the HTTP handlers and the refresh worker.
type DashboardService struct {
	storage *storage.SQLiteRepository
}

func NewDashboardService(storage *storage.SQLiteRepository) *DashboardService {
	return &DashboardService{storage: storage}
}

type scopedData struct {
	accounts      []core.Account
	visible       map[string]struct{}
	accountsIn    []core.Account
	transactions  []core.Transaction
	subscriptions []core.Subscription
}

// loadScope loads everything and narrows it to the selected
// institution. An unknown institution yields an empty scope, not an
// error, so the caller still gets a zeroed dashboard.
func (s *DashboardService) loadScope(ctx context.Context, institutionID string) (scopedData, error) {
	accounts, err := s.storage.ListAccounts(ctx)
	if err != nil {
		return scopedData{}, fmt.Errorf("load accounts: %w", err)
	}
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return scopedData{}, fmt.Errorf("load transactions: %w", err)
	}
	subscriptions, err := s.storage.ListSubscriptions(ctx)
	if err != nil {
		return scopedData{}, fmt.Errorf("load subscriptions: %w", err)
	}

	visible := scoring.ResolveVisibleAccountIDs(accounts, institutionID)
	return scopedData{
		accounts:      accounts,
		visible:       visible,
		accountsIn:    scoring.FilterAccounts(accounts, visible),
		transactions:  scoring.FilterTransactions(transactions, visible),
		subscriptions: scoring.FilterSubscriptions(subscriptions, visible),
	}, nil
}

// Build assembles the full dashboard for one scope and period.
func (s *DashboardService) Build(ctx context.Context, institutionID string, period scoring.Period, now time.Time) (Dashboard, error) {
	data, err := s.loadScope(ctx, institutionID)
	if err != nil {
		return Dashboard{}, err
	}

	income := scoring.MonthlyIncome(data.transactions, now)
	monthlyCost := scoring.MonthlySubscriptionCost(data.subscriptions)
	loadPct := scoring.SubscriptionLoadPercent(monthlyCost, income)

	clarity := scoring.CalculateFinancialClarity(scoring.ClarityInput{
		Accounts:      data.accounts,
		Visible:       data.visible,
		Transactions:  data.transactions,
		Subscriptions: data.subscriptions,
		MonthlyIncome: income,
		Now:           now,
	})

	periodExpenses := scoring.ExpensesForPeriod(data.transactions, period, now)

	return Dashboard{
		InstitutionID:       institutionID,
		Period:              string(period),
		CashControl:         scoring.CashControl(data.transactions, data.accountsIn, now),
		CategoryBreakdown:   scoring.CategoryBreakdown(periodExpenses, scoring.DefaultTopCategories),
		Clarity:             clarity,
		ClarityLabel:        scoring.ClarityLabel(clarity.Score),
		ClaritySubtext:      scoring.ClaritySubtext(clarity, loadPct),
		MonthlyIncomeCents:  income.Cents,
		MonthlySubCostCents: monthlyCost.Cents,
		AnnualSubCostCents:  scoring.AnnualSubscriptionCost(data.subscriptions).Cents,
		SubscriptionLoadPct: loadPct,
		Insights: scoring.GenerateInsights(scoring.InsightInput{
			Transactions:  data.transactions,
			Subscriptions: data.subscriptions,
			MonthlyIncome: income,
			Now:           now,
		}),
		GeneratedAt: now.UTC(),
	}, nil
}

// LatestSnapshot returns the most recent dashboard the refresh worker
// persisted for one scope.
func (s *DashboardService) LatestSnapshot(ctx context.Context, institutionID string) (storage.Snapshot, error) {
	return s.storage.LatestSnapshot(ctx, institutionID)
}

// Insights evaluates only the insight rules for one scope.
func (s *DashboardService) Insights(ctx context.Context, institutionID string, now time.Time) ([]scoring.Insight, error) {
	data, err := s.loadScope(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	return scoring.GenerateInsights(scoring.InsightInput{
		Transactions:  data.transactions,
		Subscriptions: data.subscriptions,
		MonthlyIncome: scoring.MonthlyIncome(data.transactions, now),
		Now:           now,
	}), nil
}
