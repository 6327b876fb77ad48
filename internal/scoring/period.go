package scoring

import (
	"time"

	"clarity/internal/core"
)

// Period selects the time window for expense filtering.
type Period string

const (
	PeriodThisMonth  Period = "this_month"
	PeriodLast30Days Period = "last_30_days"
)

// ExpensesForPeriod keeps expense transactions falling in the requested
// window relative to now. this_month uses the calendar year+month;
// last_30_days is a rolling [now-30d, now] window, both ends inclusive,
// so a transaction dated exactly 30 days ago is kept.
func ExpensesForPeriod(txns []core.Transaction, period Period, now time.Time) []core.Transaction {
	today := core.DateOf(now)
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Type != core.TxnExpense {
			continue
		}
		switch period {
		case PeriodThisMonth:
			if t.Date.SameMonth(today) {
				out = append(out, t)
			}
		case PeriodLast30Days:
			if t.Date.Between(today.AddDays(-30), today) {
				out = append(out, t)
			}
		}
	}
	return out
}

// MonthlyIncome sums income for the calendar month containing now.
func MonthlyIncome(txns []core.Transaction, now time.Time) core.Money {
	return incomeInMonth(txns, core.DateOf(now))
}

// expensesInMonth sums absolute expense amounts for the calendar month
// containing ref.
func expensesInMonth(txns []core.Transaction, ref core.Date) core.Money {
	var total int64
	for _, t := range txns {
		if t.Type == core.TxnExpense && t.Date.SameMonth(ref) {
			total += t.Amount.Abs().Cents
		}
	}
	return core.Money{Cents: total}
}

// incomeInMonth sums income amounts for the calendar month containing ref.
func incomeInMonth(txns []core.Transaction, ref core.Date) core.Money {
	var total int64
	for _, t := range txns {
		if t.Type == core.TxnIncome && t.Date.SameMonth(ref) {
			total += t.Amount.Abs().Cents
		}
	}
	return core.Money{Cents: total}
}

// categoryExpensesInMonth sums absolute expense amounts matching a
// category bucket for the calendar month containing ref.
func categoryExpensesInMonth(txns []core.Transaction, kind CategoryKind, ref core.Date) core.Money {
	var total int64
	for _, t := range txns {
		if t.Type == core.TxnExpense && t.Date.SameMonth(ref) && MatchesCategory(t.Category, kind) {
			total += t.Amount.Abs().Cents
		}
	}
	return core.Money{Cents: total}
}

// previousMonth returns a date inside the calendar month before ref.
func previousMonth(ref core.Date) core.Date {
	first := core.NewDate(ref.Year(), ref.Month(), 1)
	return core.Date{Time: first.AddDate(0, -1, 0)}
}
