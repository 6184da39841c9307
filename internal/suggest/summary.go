package suggest

import (
	"time"

	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/iwvelando/finance-suggest/pkg/mathutil"
)

// ComputeMonthlySummary averages spending over the trailing window ending at now
// using the default policy.
func ComputeMonthlySummary(transactions []Transaction, now time.Time) MonthlySummary {
	return DefaultPolicy().Summarize(transactions, now)
}

// Summarize averages spending over the policy window ending at now.
//
// Invalid amounts count as 0 and zero dates count as now. The total is the sum of
// every in-window amount divided once by MonthsInWindow.
func (p Policy) Summarize(transactions []Transaction, now time.Time) MonthlySummary {
	sums := make(map[string]float64)
	windowSum := 0.0

	for _, txn := range transactions {
		date := txn.Date
		if date.IsZero() {
			date = now
		}
		if !datetime.WithinWindow(date, now, p.windowDays()) {
			continue
		}
		amount := mathutil.NonNegative(txn.Amount)
		category := p.NormalizeCategory(txn.Category)
		sums[category] += amount
		windowSum += amount
	}

	months := p.monthsInWindow()
	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = sum / months
	}

	return MonthlySummary{
		CategoryMonthlyAverage: averages,
		TotalMonthlyAverage:    windowSum / months,
	}
}
