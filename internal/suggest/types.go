// Package suggest turns a transaction history and an optional savings goal into
// an ordered list of "save money" suggestions.
//
// The package has two stages. ComputeMonthlySummary reduces transactions to
// per-category and total monthly averages over a trailing window, and
// GenerateSuggestions applies the reduction and goal-allocation rules to those
// averages. Both are pure functions of their inputs, including the evaluation
// time, so they are safe for concurrent use.
package suggest

import "time"

// Transaction is a single spending record.
type Transaction struct {
	Amount   float64   `json:"amount" yaml:"amount"`
	Category string    `json:"category" yaml:"category"`
	Date     time.Time `json:"date" yaml:"date"`
}

// MonthlySummary holds trailing-window monthly spending averages.
type MonthlySummary struct {
	CategoryMonthlyAverage map[string]float64 `json:"categoryMonthlyAverage"`
	TotalMonthlyAverage    float64            `json:"totalMonthlyAverage"`
}

// Goal describes a savings target. A nil TargetDate means the policy's default horizon.
type Goal struct {
	Name         string     `json:"name" yaml:"name"`
	TargetAmount float64    `json:"targetAmount" yaml:"targetAmount"`
	CurrentSaved float64    `json:"currentSaved" yaml:"currentSaved"`
	TargetDate   *time.Time `json:"targetDate,omitempty" yaml:"targetDate,omitempty"`
}

// Icon is a presentation hint attached to a suggestion.
type Icon string

const (
	IconAlert Icon = "alert"
	IconBulb  Icon = "bulb"
	IconZap   Icon = "zap"
)

// Impact classifies the size of a suggestion's savings for display.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Suggestion is one actionable recommendation.
type Suggestion struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Savings     float64 `json:"savings"`
	Category    string  `json:"category"`
	Icon        Icon    `json:"icon,omitempty"`
	Impact      Impact  `json:"impact"`
}

// ID identifies the suggestion within a single result. Categories are unique
// per result and the goal suggestion uses a sentinel category, so the category
// doubles as the identifier.
func (s Suggestion) ID() string {
	return s.Category
}

// Result bundles the summary with the suggestions generated from it.
type Result struct {
	Summary     MonthlySummary `json:"summary"`
	Suggestions []Suggestion   `json:"suggestions"`
}
