// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"strings"

	"github.com/iwvelando/finance-suggest/internal/config"
	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"go.uber.org/zap"
)

// GoalFromConfig converts a configured goal into an engine goal. A nil goal
// stays nil. An unparseable target date falls back to the default horizon.
func GoalFromConfig(goal *config.GoalConfig, logger *zap.Logger) *suggest.Goal {
	if goal == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	converted := &suggest.Goal{
		Name:         strings.TrimSpace(goal.Name),
		TargetAmount: goal.TargetAmount,
		CurrentSaved: goal.CurrentSaved,
	}

	if raw := strings.TrimSpace(goal.TargetDate); raw != "" {
		target, err := datetime.ParseDate(raw)
		if err != nil {
			logger.Debug("ignoring unparseable goal target date",
				zap.String("op", "adapters.GoalFromConfig"),
				zap.String("target_date", raw),
				zap.Error(err),
			)
		} else {
			converted.TargetDate = &target
		}
	}

	return converted
}

// PolicyFromConfig returns the default policy with the configured currency
// symbol, if any.
func PolicyFromConfig(conf *config.Configuration) suggest.Policy {
	policy := suggest.DefaultPolicy()
	if conf == nil || conf.Output.CurrencySymbol == "" {
		return policy
	}
	return policy.WithCurrencySymbol(conf.Output.CurrencySymbol)
}
