// Package scoring derives normalized financial scores, qualitative
// labels, and prioritized behavioral insights from a snapshot of a
// user's accounts, transactions, and subscriptions. Every function is
// pure: it reads only its arguments, does no I/O, and returns the same
// output for the same input.
package scoring

// All tuning knobs live here so tests can assert on them directly and
// a future data source can replace an estimate without touching the
// scoring logic.
const (
	// BalanceEstimateFactor approximates last month's cash balance as a
	// fixed haircut on the current balance. There is no historical
	// balance ledger yet; this is an acknowledged placeholder, not a
	// measured baseline.
	BalanceEstimateFactor = 0.92

	// ExpensesUpThresholdPct is the strict month-over-month expense
	// increase above which spending counts as "up".
	ExpensesUpThresholdPct = 10.0

	// DeltaWeight scales the balance and expense deltas in the combined
	// cash-control score.
	DeltaWeight = 0.8

	// ScoreBaseline is the neutral cash-control score before deltas.
	ScoreBaseline = 50

	// SavingsRateThresholdPct is the savings rate above which the
	// behavior sub-score awards its points.
	SavingsRateThresholdPct = 10.0

	// FeeRatioThresholdPct is the fee share of monthly expenses below
	// which spending counts as stable.
	FeeRatioThresholdPct = 2.0

	// SubscriptionLoadThresholdPct is the subscription share of income
	// above which the load is flagged.
	SubscriptionLoadThresholdPct = 10.0

	// DiningRatioThresholdPct is the dining share of monthly expenses
	// above which the dining insight fires.
	DiningRatioThresholdPct = 25.0

	// UtilitiesRiseFactor is the month-over-month utilities multiplier
	// above which the rising-utilities insight fires.
	UtilitiesRiseFactor = 1.1

	// StrongSavingsThresholdPct is the savings rate above which the
	// strong-savings insight fires.
	StrongSavingsThresholdPct = 20.0
)

// Sub-score caps and label thresholds for the clarity score.
const (
	VisibilityMax = 40
	BehaviorMax   = 20
	StabilityMax  = 40

	LabelStrongMin   = 80
	LabelModerateMin = 50
)

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
