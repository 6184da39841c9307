package suggest

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/iwvelando/finance-suggest/pkg/format"
	"github.com/iwvelando/finance-suggest/pkg/mathutil"
)

// GenerateSuggestions applies the default policy's rules to monthly averages.
// The goal may be nil.
func GenerateSuggestions(categoryMonthlyAverage map[string]float64, goal *Goal, now time.Time) []Suggestion {
	return DefaultPolicy().Suggest(categoryMonthlyAverage, goal, now)
}

// Suggest applies the goal-allocation and category-reduction rules.
//
// A goal suggestion, when emitted, is always first. Category suggestions follow
// ordered by descending average, ties broken by category name, so the output is
// identical for identical inputs.
func (p Policy) Suggest(categoryMonthlyAverage map[string]float64, goal *Goal, now time.Time) []Suggestion {
	suggestions := make([]Suggestion, 0, len(categoryMonthlyAverage)+1)

	if s, ok := p.goalSuggestion(goal, now); ok {
		suggestions = append(suggestions, s)
	}

	categories := make([]string, 0, len(categoryMonthlyAverage))
	for category := range categoryMonthlyAverage {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		ai, aj := categoryMonthlyAverage[categories[i]], categoryMonthlyAverage[categories[j]]
		if ai != aj {
			return ai > aj
		}
		return categories[i] < categories[j]
	})

	for _, category := range categories {
		if s, ok := p.reductionSuggestion(category, categoryMonthlyAverage[category]); ok {
			suggestions = append(suggestions, s)
		}
	}

	return suggestions
}

// GoalMonths returns the number of months left to reach goal.
func (p Policy) GoalMonths(goal Goal, now time.Time) int {
	if goal.TargetDate == nil {
		if p.DefaultGoalMonths <= 0 {
			return constants.DefaultGoalMonths
		}
		return p.DefaultGoalMonths
	}
	return datetime.MonthsUntil(now, *goal.TargetDate, p.DaysPerMonth)
}

func (p Policy) goalSuggestion(goal *Goal, now time.Time) (Suggestion, bool) {
	if goal == nil {
		return Suggestion{}, false
	}

	remaining := mathutil.Max(0, mathutil.NonNegative(goal.TargetAmount)-mathutil.NonNegative(goal.CurrentSaved))
	months := p.GoalMonths(*goal, now)
	if months < 1 {
		months = 1
	}
	required := remaining / float64(months)
	if !(required > 0) {
		return Suggestion{}, false
	}

	name := strings.TrimSpace(goal.Name)
	if name == "" {
		name = "travel"
	}

	return Suggestion{
		Title:       fmt.Sprintf("Allocate %s/month toward your %s goal", p.money(required), name),
		Description: fmt.Sprintf("To reach %s in %d month(s) set aside about %s per month, shifting it from discretionary categories.", p.money(remaining), months, p.money(required)),
		Savings:     mathutil.Round(required),
		Category:    p.goalCategory(),
		Icon:        IconAlert,
		Impact:      ImpactHigh,
	}, true
}

func (p Policy) reductionSuggestion(category string, average float64) (Suggestion, bool) {
	if !p.IsNonEssential(category) {
		return Suggestion{}, false
	}

	potential := average * p.ReductionRate
	if !(potential > p.MinimumSavings) {
		return Suggestion{}, false
	}

	impact := p.ImpactFor(potential)
	return Suggestion{
		Title:       fmt.Sprintf("Reduce %s spending by %.0f%%", capitalize(category), p.ReductionRate*100),
		Description: fmt.Sprintf("Trim discretionary spending in %s to save about %s per month.", category, p.money(potential)),
		Savings:     mathutil.Round(potential),
		Category:    category,
		Icon:        iconFor(impact),
		Impact:      impact,
	}, true
}

func (p Policy) money(amount float64) string {
	return format.CurrencyWithSymbol(p.CurrencySymbol, amount)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
