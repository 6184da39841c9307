// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-suggest/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateLedgerFormat checks if a transaction file format is supported. An
// empty format means "infer from the file extension" and is accepted.
func ValidateLedgerFormat(format string) error {
	switch format {
	case "", constants.LedgerFormatCSV, constants.LedgerFormatJSON, constants.LedgerFormatYAML, "yml":
		return nil
	}
	return fmt.Errorf("expected ledger format of %s, %s or %s, got %s",
		constants.LedgerFormatCSV, constants.LedgerFormatJSON, constants.LedgerFormatYAML, format)
}
