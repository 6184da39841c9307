package ledger

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Reader parses ledger sources and logs coerced fields.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new ledger reader with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// FormatFromPath infers the ledger format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return constants.LedgerFormatCSV, nil
	case ".json":
		return constants.LedgerFormatJSON, nil
	case ".yaml", ".yml":
		return constants.LedgerFormatYAML, nil
	default:
		return "", fmt.Errorf("cannot infer ledger format from %q", path)
	}
}

// ReadFile loads transactions from path. An empty format is inferred from the extension.
func (lr *Reader) ReadFile(path, format string) ([]suggest.Transaction, error) {
	if format == "" {
		inferred, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = inferred
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			lr.logger.Warn("failed to close ledger file",
				zap.String("op", "ledger.ReadFile"),
				zap.String("path", path),
				zap.Error(closeErr),
			)
		}
	}()

	return lr.Read(file, format)
}

// Read parses transactions in the given format from r.
func (lr *Reader) Read(r io.Reader, format string) ([]suggest.Transaction, error) {
	var (
		records []Record
		err     error
	)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case constants.LedgerFormatCSV:
		records, err = readCSV(r)
	case constants.LedgerFormatJSON:
		records, err = readJSON(r)
	case constants.LedgerFormatYAML, "yml":
		records, err = readYAML(r)
	default:
		return nil, fmt.Errorf("unsupported ledger format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return lr.convert(records), nil
}

func (lr *Reader) convert(records []Record) []suggest.Transaction {
	transactions := make([]suggest.Transaction, 0, len(records))
	for i, record := range records {
		if _, ok := ParseAmount(string(record.Amount)); !ok {
			lr.logger.Debug("coercing malformed amount to 0",
				zap.String("op", "ledger.Read"),
				zap.Int("record", i),
				zap.String("amount", string(record.Amount)),
			)
		}
		if _, ok := ParseDate(string(record.Date)); !ok {
			lr.logger.Debug("unusable date, counting transaction at evaluation time",
				zap.String("op", "ledger.Read"),
				zap.Int("record", i),
				zap.String("date", string(record.Date)),
			)
		}
		transactions = append(transactions, record.Transaction())
	}

	lr.logger.Debug("ledger read",
		zap.String("op", "ledger.Read"),
		zap.Int("records", len(records)),
	)
	return transactions
}

func readCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := map[string]int{"amount": -1, "category": -1, "date": -1}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, known := columns[key]; known && columns[key] < 0 {
			columns[key] = i
		}
	}
	if columns["amount"] < 0 {
		return nil, fmt.Errorf("csv header must contain an amount column, got %v", header)
	}

	field := func(row []string, column string) RawValue {
		idx := columns[column]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return RawValue(row[idx])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(records)+2, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		records = append(records, Record{
			Amount:   field(row, "amount"),
			Category: field(row, "category"),
			Date:     field(row, "date"),
		})
	}
	return records, nil
}

func readJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode json ledger: %w", err)
	}
	return records, nil
}

func readYAML(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode yaml ledger: %w", err)
	}
	return records, nil
}
