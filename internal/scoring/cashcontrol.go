package scoring

import (
	"math"
	"time"

	"clarity/internal/core"
)

// CashControlStatus is the 3-level month-over-month spending signal.
type CashControlStatus string

const (
	StatusGood     CashControlStatus = "good"
	StatusModerate CashControlStatus = "moderate"
	StatusHigh     CashControlStatus = "high"
)

// CashControlData is the month-over-month expense and balance summary.
// Nil change percentages mean "no signal" (previous value was zero),
// which is distinct from a zero change.
type CashControlData struct {
	ExpensesThisMonth core.Money        `json:"expensesThisMonth"`
	ExpensesLastMonth core.Money        `json:"expensesLastMonth"`
	BalanceCurrent    core.Money        `json:"balanceCurrent"`
	BalanceLastMonth  core.Money        `json:"balanceLastMonth"`
	ExpensesChangePct *float64          `json:"expensesChangePct"`
	BalanceChangePct  *float64          `json:"balanceChangePct"`
	Status            CashControlStatus `json:"status"`
	Score             int               `json:"score"`
	Segments          int               `json:"segments"`
}

// MonthOverMonthPercent returns (current-previous)/previous*100, or nil
// when previous is zero: no baseline means no signal, not a 0% change.
func MonthOverMonthPercent(current, previous int64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := float64(current-previous) / float64(previous) * 100
	return &pct
}

// EstimateLastMonthBalance approximates last month's cash balance as
// BalanceEstimateFactor of the current one. A zero balance stays zero.
// Placeholder until a real balance history exists.
func EstimateLastMonthBalance(current core.Money) core.Money {
	if current.Cents == 0 {
		return core.Money{}
	}
	return core.Money{Cents: int64(math.Round(float64(current.Cents) * BalanceEstimateFactor))}
}

// CashControl evaluates month-over-month expenses and cash balance into
// a status and a combined 0-100 score.
func CashControl(txns []core.Transaction, accounts []core.Account, now time.Time) CashControlData {
	today := core.DateOf(now)
	lastMonth := previousMonth(today)

	data := CashControlData{
		ExpensesThisMonth: expensesInMonth(txns, today),
		ExpensesLastMonth: expensesInMonth(txns, lastMonth),
	}

	// Cash balance counts checking and savings only; credit and CD
	// accounts are excluded.
	var balance int64
	for _, a := range accounts {
		if a.Type == core.AccountChecking || a.Type == core.AccountSavings {
			balance += a.Balance.Cents
		}
	}
	data.BalanceCurrent = core.Money{Cents: balance}
	data.BalanceLastMonth = EstimateLastMonthBalance(data.BalanceCurrent)

	data.ExpensesChangePct = MonthOverMonthPercent(data.ExpensesThisMonth.Cents, data.ExpensesLastMonth.Cents)
	data.BalanceChangePct = MonthOverMonthPercent(data.BalanceCurrent.Cents, data.BalanceLastMonth.Cents)

	data.Status = classifyStatus(data.ExpensesChangePct, data.BalanceChangePct)

	// Combined score treats missing deltas as zero.
	var expDelta, balDelta float64
	if data.ExpensesChangePct != nil {
		expDelta = *data.ExpensesChangePct
	}
	if data.BalanceChangePct != nil {
		balDelta = *data.BalanceChangePct
	}
	data.Score = clampScore(int(math.Round(ScoreBaseline + balDelta*DeltaWeight - expDelta*DeltaWeight)))
	data.Segments = scoreSegments(data.Score)

	return data
}

// classifyStatus maps the two month-over-month signals onto the
// 3-level status. A nil signal counts as not-holding.
func classifyStatus(expensesChangePct, balanceChangePct *float64) CashControlStatus {
	expensesUp := expensesChangePct != nil && *expensesChangePct > ExpensesUpThresholdPct
	balanceDown := balanceChangePct != nil && *balanceChangePct < 0

	switch {
	case expensesUp && balanceDown:
		return StatusHigh
	case expensesUp || balanceDown:
		return StatusModerate
	default:
		return StatusGood
	}
}

// scoreSegments maps a 0-100 score onto a 1-5 segment gauge.
func scoreSegments(score int) int {
	switch {
	case score <= 20:
		return 1
	case score <= 40:
		return 2
	case score <= 60:
		return 3
	case score <= 80:
		return 4
	default:
		return 5
	}
}
