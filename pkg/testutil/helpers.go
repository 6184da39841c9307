// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/finance-suggest/internal/suggest"
)

// FindSuggestion finds a suggestion by identifier in the results slice.
// Returns a pointer to the suggestion if found, nil otherwise.
func FindSuggestion(suggestions []suggest.Suggestion, id string) *suggest.Suggestion {
	for i := range suggestions {
		if suggestions[i].ID() == id {
			return &suggestions[i]
		}
	}
	return nil
}

// DaysAgo builds a transaction dated the given number of days before now.
func DaysAgo(now time.Time, days int, category string, amount float64) suggest.Transaction {
	return suggest.Transaction{
		Amount:   amount,
		Category: category,
		Date:     now.AddDate(0, 0, -days),
	}
}
