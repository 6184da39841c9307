package suggest

import (
	"math"
	"strings"

	"github.com/iwvelando/finance-suggest/pkg/constants"
)

// nonEssentialCategories is the fixed set eligible for the reduction rule.
var nonEssentialCategories = []string{
	"food",
	"dining",
	"entertainment",
	"subscriptions",
	"shopping",
	"leisure",
	"utilities",
}

var nonEssentialSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(nonEssentialCategories))
	for _, category := range nonEssentialCategories {
		set[category] = struct{}{}
	}
	return set
}()

// Policy holds the parameters of the aggregation and suggestion rules.
// Non-positive window settings and empty labels fall back to the defaults, so a
// partially filled literal behaves like DefaultPolicy for the fields it omits.
type Policy struct {
	WindowDays            int
	MonthsInWindow        float64
	ReductionRate         float64
	MinimumSavings        float64
	DefaultGoalMonths     int
	DaysPerMonth          int
	HighImpactThreshold   float64
	MediumImpactThreshold float64
	GoalCategory          string
	UncategorizedLabel    string
	CurrencySymbol        string
}

// DefaultPolicy returns the standard rule parameters.
func DefaultPolicy() Policy {
	return Policy{
		WindowDays:            constants.WindowDays,
		MonthsInWindow:        constants.MonthsInWindow,
		ReductionRate:         constants.ReductionRate,
		MinimumSavings:        constants.MinimumSavings,
		DefaultGoalMonths:     constants.DefaultGoalMonths,
		DaysPerMonth:          constants.DaysPerMonth,
		HighImpactThreshold:   constants.HighImpactThreshold,
		MediumImpactThreshold: constants.MediumImpactThreshold,
		GoalCategory:          constants.GoalCategory,
		UncategorizedLabel:    constants.UncategorizedLabel,
		CurrencySymbol:        constants.DefaultCurrencySymbol,
	}
}

// WithCurrencySymbol returns a copy of the policy that renders amounts with symbol.
func (p Policy) WithCurrencySymbol(symbol string) Policy {
	p.CurrencySymbol = symbol
	return p
}

// NonEssentialCategories returns the categories eligible for the reduction rule.
func NonEssentialCategories() []string {
	return append([]string(nil), nonEssentialCategories...)
}

// IsNonEssential reports whether category is eligible for the reduction rule.
func (p Policy) IsNonEssential(category string) bool {
	_, ok := nonEssentialSet[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

func (p Policy) windowDays() int {
	if p.WindowDays <= 0 {
		return constants.WindowDays
	}
	return p.WindowDays
}

func (p Policy) monthsInWindow() float64 {
	if !(p.MonthsInWindow > 0) || math.IsInf(p.MonthsInWindow, 0) {
		return constants.MonthsInWindow
	}
	return p.MonthsInWindow
}

func (p Policy) goalCategory() string {
	if p.GoalCategory == "" {
		return constants.GoalCategory
	}
	return p.GoalCategory
}

// NormalizeCategory trims and lowercases a category label, substituting the
// uncategorized label for an empty one.
func (p Policy) NormalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		if p.UncategorizedLabel == "" {
			return constants.UncategorizedLabel
		}
		return p.UncategorizedLabel
	}
	return normalized
}

// ImpactFor classifies a monthly savings amount.
func (p Policy) ImpactFor(savings float64) Impact {
	switch {
	case savings > p.HighImpactThreshold:
		return ImpactHigh
	case savings > p.MediumImpactThreshold:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func iconFor(impact Impact) Icon {
	if impact == ImpactHigh {
		return IconAlert
	}
	return IconBulb
}
