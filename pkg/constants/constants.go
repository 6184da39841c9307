// Package constants provides shared constants for the finance-suggest application.
package constants

// DateLayout is the calendar date format used in config files, CLI flags and output.
const DateLayout = "2006-01-02"

// Suggestion policy defaults
const (
	// WindowDays is the trailing window, in days, that transactions must fall in
	WindowDays = 90

	// MonthsInWindow is the flat divisor that turns a window sum into a monthly average
	MonthsInWindow = 3

	// ReductionRate is the share of a non-essential category's average to suggest cutting
	ReductionRate = 0.20

	// MinimumSavings suppresses suggestions whose potential is at or below this amount
	MinimumSavings = 1.0

	// DefaultGoalMonths is the goal horizon used when no target date is set
	DefaultGoalMonths = 6

	// DaysPerMonth approximates a month when converting a goal deadline to months
	DaysPerMonth = 30

	// HighImpactThreshold marks savings above it as high impact
	HighImpactThreshold = 300.0

	// MediumImpactThreshold marks savings above it as medium impact
	MediumImpactThreshold = 100.0

	// GoalCategory identifies goal-allocation suggestions
	GoalCategory = "Travel"

	// UncategorizedLabel replaces an empty transaction category
	UncategorizedLabel = "uncategorized"

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultCurrencySymbol prefixes amounts in suggestion text
	DefaultCurrencySymbol = "₹"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Ledger formats
const (
	LedgerFormatCSV  = "csv"
	LedgerFormatJSON = "json"
	LedgerFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix namespaces environment overrides, e.g. FINANCE_SUGGEST_NOW
	EnvPrefix = "FINANCE_SUGGEST"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for ledger files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
