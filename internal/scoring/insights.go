package scoring

import (
	"fmt"
	"math"
	"time"

	"clarity/internal/core"
)

// InsightType identifies which rule produced an insight.
type InsightType string

const (
	InsightHighSubscriptionLoad InsightType = "high_subscription_load"
	InsightHighDiningRatio      InsightType = "high_dining_ratio"
	InsightFeeDetected          InsightType = "fee_detected"
	InsightRisingUtilities      InsightType = "rising_utilities"
	InsightStrongSavingsRate    InsightType = "strong_savings_rate"
)

// MaxInsights caps how many insights a single evaluation returns.
const MaxInsights = 3

// Insight is one behavioral observation with a user-facing message.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}

// InsightInput is the scoped data the insight rules run over.
type InsightInput struct {
	Transactions  []core.Transaction
	Subscriptions []core.Subscription
	MonthlyIncome core.Money
	Now           time.Time
}

// GenerateInsights evaluates the rules in fixed priority order and
// returns the first MaxInsights that fire. Rule order, not severity,
// decides which insights survive the cap. Empty input yields no
// insights rather than an error.
func GenerateInsights(in InsightInput) []Insight {
	today := core.DateOf(in.Now)
	lastMonth := previousMonth(today)

	var out []Insight
	add := func(ins Insight) bool {
		out = append(out, ins)
		return len(out) >= MaxInsights
	}

	// 1. Subscription load above threshold.
	if load := SubscriptionLoadPercent(MonthlySubscriptionCost(in.Subscriptions), in.MonthlyIncome); load != nil && *load > SubscriptionLoadThresholdPct {
		if add(Insight{
			Type:    InsightHighSubscriptionLoad,
			Message: fmt.Sprintf("Subscriptions take %d%% of your monthly income. Worth a review.", roundPct(*load)),
		}) {
			return out
		}
	}

	// 2. Dining share of this month's spending.
	monthExpenses := expensesInMonth(in.Transactions, today)
	if monthExpenses.Cents > 0 {
		dining := categoryExpensesInMonth(in.Transactions, KindDining, today)
		diningPct := float64(dining.Cents) / float64(monthExpenses.Cents) * 100
		if diningPct > DiningRatioThresholdPct {
			if add(Insight{
				Type:    InsightHighDiningRatio,
				Message: fmt.Sprintf("Dining out is %d%% of this month's spending.", roundPct(diningPct)),
			}) {
				return out
			}
		}
	}

	// 3. Any fee charged this month.
	for _, t := range in.Transactions {
		if t.Type == core.TxnExpense && t.Date.SameMonth(today) && MatchesCategory(t.Category, KindFee) {
			if add(Insight{
				Type:    InsightFeeDetected,
				Message: "A bank fee hit your account this month. It may be avoidable.",
			}) {
				return out
			}
			break
		}
	}

	// 4. Utilities rising month over month.
	utilLast := categoryExpensesInMonth(in.Transactions, KindUtilities, lastMonth)
	if utilLast.Cents > 0 {
		utilNow := categoryExpensesInMonth(in.Transactions, KindUtilities, today)
		if float64(utilNow.Cents) > UtilitiesRiseFactor*float64(utilLast.Cents) {
			risePct := (float64(utilNow.Cents)/float64(utilLast.Cents) - 1) * 100
			if add(Insight{
				Type:    InsightRisingUtilities,
				Message: fmt.Sprintf("Utilities are up %d%% compared to last month.", roundPct(risePct)),
			}) {
				return out
			}
		}
	}

	// 5. Strong savings rate.
	if in.MonthlyIncome.Cents > 0 {
		transfers := categoryExpensesInMonth(in.Transactions, KindTransfer, today)
		savingsPct := float64(transfers.Cents) / float64(in.MonthlyIncome.Cents) * 100
		if savingsPct > StrongSavingsThresholdPct {
			if add(Insight{
				Type:    InsightStrongSavingsRate,
				Message: fmt.Sprintf("You're moving %d%% of your income into savings. Keep it up.", roundPct(savingsPct)),
			}) {
				return out
			}
		}
	}

	return out
}

func roundPct(pct float64) int {
	return int(math.Round(pct))
}
