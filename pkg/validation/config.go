// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/iwvelando/finance-suggest/pkg/mathutil"
)

// GoalInfo is the validation view of a configured savings goal.
type GoalInfo struct {
	Name         string
	TargetAmount float64
	CurrentSaved float64
	TargetDate   string
}

// ValidateGoal returns warnings for goal settings that will produce no or
// surprising suggestions. None of them are fatal.
func ValidateGoal(goal GoalInfo, now time.Time) []string {
	var warnings []string

	name := strings.TrimSpace(goal.Name)
	if name == "" {
		warnings = append(warnings, "Goal has no name; it will be reported as 'travel'")
		name = "travel"
	}

	if goal.TargetAmount < 0 {
		warnings = append(warnings, fmt.Sprintf("Goal '%s' has a negative target amount (%.2f)", name, goal.TargetAmount))
	}
	if goal.CurrentSaved < 0 {
		warnings = append(warnings, fmt.Sprintf("Goal '%s' has a negative saved amount (%.2f)", name, goal.CurrentSaved))
	}
	if goal.TargetAmount > 0 && !mathutil.IsZero(goal.TargetAmount) {
		switch {
		case goal.CurrentSaved >= goal.TargetAmount:
			warnings = append(warnings, fmt.Sprintf("Goal '%s' is already reached (%.2f of %.2f); no allocation will be suggested",
				name, goal.CurrentSaved, goal.TargetAmount))
		case mathutil.WithinTolerance(goal.CurrentSaved, goal.TargetAmount, constants.CurrencyTolerance):
			warnings = append(warnings, fmt.Sprintf("Goal '%s' is within a cent of its target (%.3f of %.2f); the suggested allocation will be negligible",
				name, goal.CurrentSaved, goal.TargetAmount))
		}
	}

	if goal.TargetDate != "" {
		target, err := datetime.ParseDate(goal.TargetDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Goal '%s' target date %q is not a valid date; the default horizon will be used",
				name, goal.TargetDate))
		} else if !target.After(now) {
			warnings = append(warnings, fmt.Sprintf("Goal '%s' target date %s is not in the future; the full amount is due within one month",
				name, goal.TargetDate))
		}
	}

	return warnings
}
