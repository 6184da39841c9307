// Package output provides utilities for formatting and displaying suggestion results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/iwvelando/finance-suggest/internal/dashboard"
	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/mathutil"
	"github.com/iwvelando/finance-suggest/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything a consumer displays for one evaluation.
type Report struct {
	Summary        suggest.MonthlySummary `json:"summary"`
	Suggestions    []suggest.Suggestion   `json:"suggestions"`
	Overview       dashboard.Overview     `json:"overview"`
	Dismissed      []string               `json:"dismissed"`
	CurrencySymbol string                 `json:"-"`
}

// NewReport filters result through board and computes the overview. A nil board
// shows everything.
func NewReport(result suggest.Result, board *dashboard.Board, currencySymbol string) Report {
	if board == nil {
		board = dashboard.NewBoard()
	}
	return Report{
		Summary:        result.Summary,
		Suggestions:    board.Visible(result.Suggestions),
		Overview:       board.Overview(result.Suggestions),
		Dismissed:      board.Dismissed(),
		CurrencySymbol: currencySymbol,
	}
}

// Print writes the report to stdout in the named format.
func Print(format string, report Report) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}
	switch format {
	case constants.OutputFormatCSV:
		CsvFormat(report)
	case constants.OutputFormatJSON:
		return JSONFormat(report)
	default:
		PrettyFormat(report)
	}
	return nil
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(report Report) {
	p := message.NewPrinter(language.English)
	symbol := report.CurrencySymbol
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}

	fmt.Printf("--- Monthly spending (last %d days) ---\n", constants.WindowDays)
	fmt.Printf("Category        | Monthly average | Share\n")
	fmt.Printf("________        | _______________ | _____\n")
	total := report.Summary.TotalMonthlyAverage
	for _, category := range sortedCategories(report.Summary.CategoryMonthlyAverage) {
		average := report.Summary.CategoryMonthlyAverage[category]
		_, _ = p.Printf("%-15s | %s%.2f | %.1f%%\n", category, symbol, average, mathutil.CalculatePercentage(average, total))
	}
	_, _ = p.Printf("%-15s | %s%.2f\n", "total", symbol, report.Summary.TotalMonthlyAverage)
	fmt.Printf("\n")

	fmt.Printf("--- Suggestions ---\n")
	if len(report.Suggestions) == 0 {
		fmt.Printf("No suggestions. Spending looks lean.\n")
	}
	for i, s := range report.Suggestions {
		_, _ = p.Printf("%d. [%s] %s (save %s%.2f/month)\n", i+1, s.Impact, s.Title, symbol, s.Savings)
		fmt.Printf("   %s\n", s.Description)
	}
	fmt.Printf("\n")

	fmt.Printf("--- Overview ---\n")
	_, _ = p.Printf("Potential monthly savings: %s%.2f\n", symbol, report.Overview.MonthlySavings)
	_, _ = p.Printf("Potential annual savings:  %s%.2f\n", symbol, report.Overview.AnnualSavings)
	fmt.Printf("Active suggestions:        %s\n", report.Overview.Progress)
	if len(report.Dismissed) > 0 {
		fmt.Printf("Dismissed:                 %d\n", report.Overview.Dismissed)
	}
}

// CsvFormat outputs the suggestions in comma-separated value format.
func CsvFormat(report Report) {
	fmt.Print(CsvString(report))
}

// CsvString renders the suggestions as CSV, one row per visible suggestion.
func CsvString(report Report) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"category", "title", "description", "savings", "impact", "icon"})
	for _, s := range report.Suggestions {
		_ = w.Write([]string{
			s.Category,
			s.Title,
			s.Description,
			strconv.FormatFloat(s.Savings, 'f', 2, 64),
			string(s.Impact),
			string(s.Icon),
		})
	}
	w.Flush()
	return buf.String()
}

// JSONFormat outputs the whole report as indented JSON.
func JSONFormat(report Report) error {
	return WriteJSON(os.Stdout, report)
}

// WriteJSON encodes the report to w.
func WriteJSON(w io.Writer, report Report) error {
	if report.Suggestions == nil {
		report.Suggestions = []suggest.Suggestion{}
	}
	if report.Dismissed == nil {
		report.Dismissed = []string{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func sortedCategories(averages map[string]float64) []string {
	categories := make([]string, 0, len(averages))
	for category := range averages {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
