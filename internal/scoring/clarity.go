package scoring

import (
	"time"

	"clarity/internal/core"
)

// ClarityInput is the scoped data the clarity score is computed from.
// Transactions and Subscriptions must already be filtered to the
// visible account set; Accounts is the full list with Visible naming
// the ids in scope.
type ClarityInput struct {
	Accounts      []core.Account
	Visible       map[string]struct{}
	Transactions  []core.Transaction
	Subscriptions []core.Subscription
	MonthlyIncome core.Money
	Now           time.Time
}

// ClarityBreakdown carries the three sub-scores. Visibility and
// Stability max out at 40, Behavior at 20.
type ClarityBreakdown struct {
	Visibility int `json:"visibility"`
	Behavior   int `json:"behavior"`
	Stability  int `json:"stability"`
}

// ClarityResult is the combined 0-100 financial clarity score.
type ClarityResult struct {
	Score     int              `json:"score"`
	Breakdown ClarityBreakdown `json:"breakdown"`
}

// CalculateFinancialClarity combines visibility (account and
// subscription breadth), behavior (savings rate), and stability (fee
// ratio and cash-flow sign) into a single clamped 0-100 score.
func CalculateFinancialClarity(in ClarityInput) ClarityResult {
	var b ClarityBreakdown

	// Visibility: +20 for spanning at least two institutions, +20 for
	// at least one billing subscription in scope.
	institutions := make(map[string]struct{})
	for _, a := range in.Accounts {
		if _, ok := in.Visible[a.ID]; ok {
			institutions[a.InstitutionID] = struct{}{}
		}
	}
	if len(institutions) >= 2 {
		b.Visibility += 20
	}
	for _, s := range in.Subscriptions {
		if s.Status.Billing() {
			b.Visibility += 20
			break
		}
	}

	// Behavior: +20 when the savings rate clears the threshold. A
	// non-positive income means a zero savings rate, never points.
	if savingsRatePct(in.Transactions, in.MonthlyIncome) > SavingsRateThresholdPct {
		b.Behavior += 20
	}

	// Stability gate 1: fees under FeeRatioThresholdPct of this month's
	// expenses. No expenses at all is a 0% fee ratio and counts as
	// stable.
	today := core.DateOf(in.Now)
	monthExpenses := expensesInMonth(in.Transactions, today)
	feeExpenses := categoryExpensesInMonth(in.Transactions, KindFee, today)
	feeRatioPct := 0.0
	if monthExpenses.Cents > 0 {
		feeRatioPct = float64(feeExpenses.Cents) / float64(monthExpenses.Cents) * 100
	}
	if feeRatioPct < FeeRatioThresholdPct {
		b.Stability += 20
	}

	// Stability gate 2: non-negative cash flow this month.
	if incomeInMonth(in.Transactions, today).Cents >= monthExpenses.Cents {
		b.Stability += 20
	}

	return ClarityResult{
		Score:     clampScore(b.Visibility + b.Behavior + b.Stability),
		Breakdown: b,
	}
}

// savingsRatePct is the transfer-category expense total as a percent of
// monthly income, 0 when income is non-positive.
func savingsRatePct(txns []core.Transaction, income core.Money) float64 {
	if income.Cents <= 0 {
		return 0
	}
	var transfers int64
	for _, t := range txns {
		if t.Type == core.TxnExpense && MatchesCategory(t.Category, KindTransfer) {
			transfers += t.Amount.Abs().Cents
		}
	}
	return float64(transfers) / float64(income.Cents) * 100
}

// ClarityLabel maps a score to its qualitative label.
func ClarityLabel(score int) string {
	switch {
	case score >= LabelStrongMin:
		return "Strong"
	case score >= LabelModerateMin:
		return "Moderate"
	default:
		return "Needs attention"
	}
}

// ClaritySubtext picks the one-line explanation shown under the score.
// Priority: strong score, then subscription load, then visibility, then
// stability, then a generic fallback. subscriptionLoadPct may be nil
// when income is unknown.
func ClaritySubtext(res ClarityResult, subscriptionLoadPct *float64) string {
	switch {
	case res.Score >= LabelStrongMin:
		return "You have a clear view of your money. Keep it up."
	case subscriptionLoadPct != nil && *subscriptionLoadPct > SubscriptionLoadThresholdPct:
		return "Subscriptions are taking a sizable bite of your income."
	case res.Breakdown.Visibility < VisibilityMax:
		return "Connect more accounts to see your full picture."
	case res.Breakdown.Stability < StabilityMax:
		return "Watch your cash flow and bank fees this month."
	default:
		return "Review your spending to sharpen your clarity."
	}
}
