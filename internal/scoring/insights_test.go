package scoring

import (
	"strings"
	"testing"

	"clarity/internal/core"
)

func TestGenerateInsightsEmpty(t *testing.T) {
	got := GenerateInsights(InsightInput{Now: testNow})
	if len(got) != 0 {
		t.Fatalf("empty input must yield zero insights, got %d", len(got))
	}
}

func TestHighSubscriptionLoad(t *testing.T) {
	subs := []core.Subscription{
		{ID: "s1", Status: core.SubscriptionActive, MonthlyCost: core.Money{Cents: 60000}},
	}

	t.Run("fires above threshold", func(t *testing.T) {
		got := GenerateInsights(InsightInput{
			Subscriptions: subs,
			MonthlyIncome: core.Money{Cents: 500000}, // 12% load
			Now:           testNow,
		})
		if len(got) != 1 || got[0].Type != InsightHighSubscriptionLoad {
			t.Fatalf("expected high_subscription_load, got %+v", got)
		}
		if !strings.Contains(got[0].Message, "12%") {
			t.Fatalf("message must carry the rounded percent: %q", got[0].Message)
		}
	})

	t.Run("never fires without income", func(t *testing.T) {
		got := GenerateInsights(InsightInput{
			Subscriptions: subs,
			Now:           testNow,
		})
		for _, ins := range got {
			if ins.Type == InsightHighSubscriptionLoad {
				t.Fatal("zero income must suppress the subscription load rule")
			}
		}
	})
}

func TestHighDiningRatio(t *testing.T) {
	got := GenerateInsights(InsightInput{
		Transactions: []core.Transaction{
			expense("t1", core.NewDate(2025, 8, 1), "Dining", 30000),
			expense("t2", core.NewDate(2025, 8, 2), "Groceries", 70000),
		},
		Now: testNow,
	})
	if len(got) != 1 || got[0].Type != InsightHighDiningRatio {
		t.Fatalf("expected high_dining_ratio, got %+v", got)
	}
	if !strings.Contains(got[0].Message, "30%") {
		t.Fatalf("message must carry the rounded percent: %q", got[0].Message)
	}
}

func TestFeeDetected(t *testing.T) {
	got := GenerateInsights(InsightInput{
		Transactions: []core.Transaction{
			expense("t1", core.NewDate(2025, 8, 3), "Overdraft Fee", 3500),
		},
		Now: testNow,
	})
	if len(got) != 1 || got[0].Type != InsightFeeDetected {
		t.Fatalf("expected fee_detected, got %+v", got)
	}

	// A fee from last month does not fire the rule.
	got = GenerateInsights(InsightInput{
		Transactions: []core.Transaction{
			expense("t1", core.NewDate(2025, 7, 3), "Overdraft Fee", 3500),
		},
		Now: testNow,
	})
	for _, ins := range got {
		if ins.Type == InsightFeeDetected {
			t.Fatal("fee outside the current month must not fire")
		}
	}
}

func TestRisingUtilities(t *testing.T) {
	t.Run("fires above 1.1x", func(t *testing.T) {
		got := GenerateInsights(InsightInput{
			Transactions: []core.Transaction{
				expense("t1", core.NewDate(2025, 8, 5), "Utilities", 12000),
				expense("t2", core.NewDate(2025, 7, 5), "Utilities", 10000),
			},
			Now: testNow,
		})
		if len(got) != 1 || got[0].Type != InsightRisingUtilities {
			t.Fatalf("expected rising_utilities, got %+v", got)
		}
		if !strings.Contains(got[0].Message, "20%") {
			t.Fatalf("message must carry the rounded percent: %q", got[0].Message)
		}
	})

	t.Run("requires a last-month baseline", func(t *testing.T) {
		got := GenerateInsights(InsightInput{
			Transactions: []core.Transaction{
				expense("t1", core.NewDate(2025, 8, 5), "Utilities", 12000),
			},
			Now: testNow,
		})
		for _, ins := range got {
			if ins.Type == InsightRisingUtilities {
				t.Fatal("no baseline must suppress the utilities rule")
			}
		}
	})

	t.Run("exactly 1.1x does not fire", func(t *testing.T) {
		got := GenerateInsights(InsightInput{
			Transactions: []core.Transaction{
				expense("t1", core.NewDate(2025, 8, 5), "Utilities", 11000),
				expense("t2", core.NewDate(2025, 7, 5), "Utilities", 10000),
			},
			Now: testNow,
		})
		for _, ins := range got {
			if ins.Type == InsightRisingUtilities {
				t.Fatal("strict threshold: 1.1x exactly must not fire")
			}
		}
	})
}

func TestStrongSavingsRate(t *testing.T) {
	got := GenerateInsights(InsightInput{
		Transactions: []core.Transaction{
			expense("t1", core.NewDate(2025, 8, 1), "Transfer to brokerage", 150000),
		},
		MonthlyIncome: core.Money{Cents: 500000}, // 30% savings rate
		Now:           testNow,
	})
	if len(got) != 1 || got[0].Type != InsightStrongSavingsRate {
		t.Fatalf("expected strong_savings_rate, got %+v", got)
	}
	if !strings.Contains(got[0].Message, "30%") {
		t.Fatalf("message must carry the rounded percent: %q", got[0].Message)
	}
}

func TestInsightCapAndOrder(t *testing.T) {
	// Construct a scope where all five rules would fire; only the first
	// three in priority order survive.
	in := InsightInput{
		Subscriptions: []core.Subscription{
			{ID: "s1", Status: core.SubscriptionActive, MonthlyCost: core.Money{Cents: 100000}},
		},
		Transactions: []core.Transaction{
			expense("dine", core.NewDate(2025, 8, 1), "Dining", 200000),
			expense("fee", core.NewDate(2025, 8, 2), "Bank Fee", 5000),
			expense("util-now", core.NewDate(2025, 8, 3), "Utilities", 50000),
			expense("util-last", core.NewDate(2025, 7, 3), "Utilities", 10000),
			expense("save", core.NewDate(2025, 8, 4), "Transfer to savings", 200000),
		},
		MonthlyIncome: core.Money{Cents: 500000},
		Now:           testNow,
	}
	got := GenerateInsights(in)
	if len(got) != MaxInsights {
		t.Fatalf("expected exactly %d insights, got %d", MaxInsights, len(got))
	}
	want := []InsightType{InsightHighSubscriptionLoad, InsightHighDiningRatio, InsightFeeDetected}
	for i, w := range want {
		if got[i].Type != w {
			t.Fatalf("slot %d: expected %s, got %s", i, w, got[i].Type)
		}
	}
}

func TestGenerateInsightsIdempotent(t *testing.T) {
	in := InsightInput{
		Transactions: []core.Transaction{
			expense("t1", core.NewDate(2025, 8, 1), "Dining", 30000),
			expense("t2", core.NewDate(2025, 8, 2), "Groceries", 70000),
		},
		Now: testNow,
	}
	first := GenerateInsights(in)
	second := GenerateInsights(in)
	if len(first) != len(second) {
		t.Fatalf("lengths differ")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("element %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
