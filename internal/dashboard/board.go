// Package dashboard holds the session state layered over suggestion results:
// which suggestions the user dismissed, and the overview figures shown above
// the list.
package dashboard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/mathutil"
)

// Board tracks dismissed suggestion identifiers. It never modifies engine output;
// every call re-filters a fresh result.
type Board struct {
	mu        sync.RWMutex
	dismissed map[string]struct{}
}

// Overview summarizes the visible suggestions of one result.
type Overview struct {
	MonthlySavings float64 `json:"monthlySavings"`
	AnnualSavings  float64 `json:"annualSavings"`
	Active         int     `json:"active"`
	Dismissed      int     `json:"dismissed"`
	Progress       string  `json:"progress"`
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{dismissed: make(map[string]struct{})}
}

// Dismiss hides the suggestion with the given identifier.
func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed[id] = struct{}{}
}

// Restore makes a dismissed suggestion visible again. It reports whether id was dismissed.
func (b *Board) Restore(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.dismissed[id]; !ok {
		return false
	}
	delete(b.dismissed, id)
	return true
}

// Reset clears every dismissal.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed = make(map[string]struct{})
}

// IsDismissed reports whether id is hidden.
func (b *Board) IsDismissed(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.dismissed[id]
	return ok
}

// Dismissed returns the dismissed identifiers in sorted order.
func (b *Board) Dismissed() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.dismissed))
	for id := range b.dismissed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Visible returns the suggestions that have not been dismissed, in their original order.
func (b *Board) Visible(suggestions []suggest.Suggestion) []suggest.Suggestion {
	b.mu.RLock()
	defer b.mu.RUnlock()
	visible := make([]suggest.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if _, hidden := b.dismissed[s.ID()]; hidden {
			continue
		}
		visible = append(visible, s)
	}
	return visible
}

// Overview computes the headline figures for a fresh result.
func (b *Board) Overview(suggestions []suggest.Suggestion) Overview {
	visible := b.Visible(suggestions)

	total := 0.0
	for _, s := range visible {
		total += s.Savings
	}
	total = mathutil.Round(total)

	active := len(visible)
	return Overview{
		MonthlySavings: total,
		AnnualSavings:  mathutil.Round(total * constants.MonthsPerYear),
		Active:         active,
		Dismissed:      len(suggestions) - active,
		Progress:       fmt.Sprintf("%d/%d", active, len(suggestions)),
	}
}
