// Package ledger reads transaction histories from CSV, JSON and YAML sources.
//
// Field values are kept as raw text until conversion so that a malformed amount
// or date degrades to a safe default instead of failing the whole file.
package ledger

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RawValue is a scalar field captured as text from JSON or YAML.
type RawValue string

// UnmarshalJSON accepts strings, numbers, booleans and null. Composite values are
// kept verbatim and later fail conversion.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(trimmed)
	return nil
}

// UnmarshalYAML captures the scalar text of a YAML node.
func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*v = ""
		return nil
	}
	*v = RawValue(node.Value)
	return nil
}

// Record is one transaction as read from a source, before conversion.
type Record struct {
	Amount   RawValue `json:"amount" yaml:"amount"`
	Category RawValue `json:"category" yaml:"category"`
	Date     RawValue `json:"date" yaml:"date"`
}

// ParseAmount converts amount text to a number. Thousands separators, spaces and
// currency symbols are ignored. Anything unparseable is 0.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == '_' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// ParseDate converts date text to a time. Anything unparseable is the zero time,
// which the suggestion engine treats as the evaluation moment.
func ParseDate(raw string) (time.Time, bool) {
	t, err := datetime.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Transaction converts the record into an engine transaction.
func (r Record) Transaction() suggest.Transaction {
	amount, _ := ParseAmount(string(r.Amount))
	date, _ := ParseDate(string(r.Date))
	return suggest.Transaction{
		Amount:   amount,
		Category: strings.TrimSpace(string(r.Category)),
		Date:     date,
	}
}

// Transactions converts records into engine transactions.
func Transactions(records []Record) []suggest.Transaction {
	transactions := make([]suggest.Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, record.Transaction())
	}
	return transactions
}
