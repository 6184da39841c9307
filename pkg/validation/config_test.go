package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidateGoal(t *testing.T) {
	now := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		goal          GoalInfo
		expectedCount int
		contains      string
	}{
		{
			name: "Healthy goal",
			goal: GoalInfo{Name: "Japan", TargetAmount: 12000, CurrentSaved: 1000, TargetDate: "2026-11-20"},
		},
		{
			name:          "Missing name",
			goal:          GoalInfo{TargetAmount: 500},
			expectedCount: 1,
			contains:      "no name",
		},
		{
			name:          "Already reached",
			goal:          GoalInfo{Name: "Bike", TargetAmount: 500, CurrentSaved: 800},
			expectedCount: 1,
			contains:      "already reached",
		},
		{
			name:          "Short of target by less than a cent",
			goal:          GoalInfo{Name: "Bike", TargetAmount: 500, CurrentSaved: 499.995},
			expectedCount: 1,
			contains:      "within a cent",
		},
		{
			name: "Short of target by a cent and a half",
			goal: GoalInfo{Name: "Bike", TargetAmount: 500, CurrentSaved: 499.985},
		},
		{
			name:          "Negative amounts",
			goal:          GoalInfo{Name: "Bike", TargetAmount: -1, CurrentSaved: -2},
			expectedCount: 2,
			contains:      "negative",
		},
		{
			name:          "Target date in the past",
			goal:          GoalInfo{Name: "Trip", TargetAmount: 1000, TargetDate: "2025-01-01"},
			expectedCount: 1,
			contains:      "not in the future",
		},
		{
			name:          "Unparseable target date",
			goal:          GoalInfo{Name: "Trip", TargetAmount: 1000, TargetDate: "someday"},
			expectedCount: 1,
			contains:      "not a valid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateGoal(tt.goal, now)
			if len(warnings) != tt.expectedCount {
				t.Fatalf("Expected %d warnings, got %d: %v", tt.expectedCount, len(warnings), warnings)
			}
			if tt.contains != "" && !strings.Contains(warnings[0], tt.contains) {
				t.Errorf("Expected warning to contain %q, got %q", tt.contains, warnings[0])
			}
		})
	}
}
