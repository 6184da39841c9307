// Package config defines the data structures related to configuration and
// includes functions for loading the config and resolving its inputs.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/iwvelando/finance-suggest/pkg/ledger"
	"github.com/iwvelando/finance-suggest/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for finance-suggest.
type Configuration struct {
	Logging      LoggingConfig      `yaml:"logging,omitempty"`
	Output       OutputConfig       `yaml:"output,omitempty"`
	Transactions TransactionsConfig `yaml:"transactions,omitempty"`
	Goal         *GoalConfig        `yaml:"goal,omitempty"`
	Now          string             `yaml:"now,omitempty"` // optional frozen evaluation date

	baseDir string
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"` // pretty, csv, json
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
}

// TransactionsConfig points at the transaction history. File and Records may be
// combined; file transactions come first.
type TransactionsConfig struct {
	File    string          `yaml:"file,omitempty"`
	Format  string          `yaml:"format,omitempty"` // csv, json, yaml; inferred from File when empty
	Records []ledger.Record `yaml:"records,omitempty"`
}

// GoalConfig describes an optional savings goal.
type GoalConfig struct {
	Name         string  `yaml:"name" json:"name"`
	TargetAmount float64 `yaml:"targetAmount" json:"targetAmount"`
	CurrentSaved float64 `yaml:"currentSaved" json:"currentSaved"`
	TargetDate   string  `yaml:"targetDate,omitempty" json:"targetDate,omitempty"`
}

// envBindings are the keys that may be set from FINANCE_SUGGEST_* variables
// without appearing in the file.
var envBindings = []string{
	"now",
	"logging.level",
	"logging.format",
	"output.format",
	"output.currencysymbol",
	"transactions.file",
	"transactions.format",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envBindings {
		_ = v.BindEnv(key)
	}
	v.SetConfigType("yml")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A relative transactions file is resolved against the
// directory of the configuration file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	configuration.baseDir = filepath.Dir(configPath)
	return configuration, nil
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// timeToStringHook keeps YAML timestamps as text so string fields such as dates
// and ledger values decode whichever YAML parser produced them.
func timeToStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		t, ok := data.(time.Time)
		if !ok {
			return data, nil
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(DateLayout), nil
		}
		return t.Format(time.RFC3339), nil
	}
}

// EvaluationTime returns the configured frozen "now", or fallback when unset. A
// bare date stands for the end of that day.
func (conf *Configuration) EvaluationTime(fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(conf.Now) == "" {
		return fallback, nil
	}
	t, err := datetime.ParseEvaluationTime(conf.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now %q: %w", conf.Now, err)
	}
	return t, nil
}

// TransactionsPath returns the transactions file path resolved against the
// configuration directory.
func (conf *Configuration) TransactionsPath() string {
	path := strings.TrimSpace(conf.Transactions.File)
	if path == "" || filepath.IsAbs(path) || conf.baseDir == "" {
		return path
	}
	return filepath.Join(conf.baseDir, path)
}

// LoadTransactions reads the transaction file, if any, followed by the inline records.
func (conf *Configuration) LoadTransactions(logger *zap.Logger) ([]suggest.Transaction, error) {
	var transactions []suggest.Transaction

	if path := conf.TransactionsPath(); path != "" {
		fromFile, err := ledger.NewReader(logger).ReadFile(path, conf.Transactions.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions from %s: %w", path, err)
		}
		transactions = append(transactions, fromFile...)
	}

	return append(transactions, ledger.Transactions(conf.Transactions.Records)...), nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration(now time.Time) []string {
	var warnings []string

	if conf.Transactions.File == "" && len(conf.Transactions.Records) == 0 {
		warnings = append(warnings, "no transactions configured; only a goal suggestion can be produced")
	}

	if conf.Goal != nil {
		warnings = append(warnings, validation.ValidateGoal(validation.GoalInfo{
			Name:         conf.Goal.Name,
			TargetAmount: conf.Goal.TargetAmount,
			CurrentSaved: conf.Goal.CurrentSaved,
			TargetDate:   conf.Goal.TargetDate,
		}, now)...)
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
