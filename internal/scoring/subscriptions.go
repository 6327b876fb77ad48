package scoring

import "clarity/internal/core"

// MonthlySubscriptionCost sums the monthly cost of subscriptions that
// still bill (active or trial).
func MonthlySubscriptionCost(subs []core.Subscription) core.Money {
	var total int64
	for _, s := range subs {
		if s.Status.Billing() {
			total += s.MonthlyCost.Cents
		}
	}
	return core.Money{Cents: total}
}

// AnnualSubscriptionCost is the billing monthly total times twelve.
func AnnualSubscriptionCost(subs []core.Subscription) core.Money {
	return core.Money{Cents: MonthlySubscriptionCost(subs).Cents * 12}
}

// SubscriptionLoadPercent returns the monthly subscription total as a
// percent of monthly income, or nil when income is non-positive.
func SubscriptionLoadPercent(monthlyTotal, monthlyIncome core.Money) *float64 {
	if monthlyIncome.Cents <= 0 {
		return nil
	}
	pct := float64(monthlyTotal.Cents) / float64(monthlyIncome.Cents) * 100
	return &pct
}
