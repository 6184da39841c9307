package suggest

import (
	"time"

	"go.uber.org/zap"
)

// Engine runs the aggregation and suggestion rules with logging.
type Engine struct {
	policy Policy
	logger *zap.Logger
}

// NewEngine creates an engine with the default policy.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	return NewEngineWithPolicy(logger, DefaultPolicy())
}

// NewEngineWithPolicy creates an engine with a custom policy.
func NewEngineWithPolicy(logger *zap.Logger, policy Policy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{policy: policy, logger: logger}
}

// Policy returns the engine's rule parameters.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Summarize computes the monthly summary for transactions as of now.
func (e *Engine) Summarize(transactions []Transaction, now time.Time) MonthlySummary {
	summary := e.policy.Summarize(transactions, now)
	e.logger.Debug("monthly summary computed",
		zap.String("op", "suggest.Summarize"),
		zap.Int("transactions", len(transactions)),
		zap.Int("categories", len(summary.CategoryMonthlyAverage)),
		zap.Float64("totalMonthlyAverage", summary.TotalMonthlyAverage),
	)
	return summary
}

// Suggest generates suggestions from monthly averages and an optional goal.
func (e *Engine) Suggest(categoryMonthlyAverage map[string]float64, goal *Goal, now time.Time) []Suggestion {
	suggestions := e.policy.Suggest(categoryMonthlyAverage, goal, now)
	for _, s := range suggestions {
		e.logger.Debug("suggestion generated",
			zap.String("op", "suggest.Suggest"),
			zap.String("category", s.Category),
			zap.Float64("savings", s.Savings),
			zap.String("impact", string(s.Impact)),
		)
	}
	return suggestions
}

// Run summarizes transactions and generates suggestions in one pass.
func (e *Engine) Run(transactions []Transaction, goal *Goal, now time.Time) Result {
	summary := e.Summarize(transactions, now)
	return Result{
		Summary:     summary,
		Suggestions: e.Suggest(summary.CategoryMonthlyAverage, goal, now),
	}
}
