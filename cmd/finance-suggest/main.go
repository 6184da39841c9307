package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/iwvelando/finance-suggest/internal/config"
	"github.com/iwvelando/finance-suggest/internal/logging"
	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/adapters"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/output"
	"github.com/iwvelando/finance-suggest/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	nowFlag := flag.String("now", "", "evaluation date override (YYYY-MM-DD means the end of that day, or RFC3339)")
	flag.Parse()

	// Environment overrides may live in a .env next to the binary
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateLedgerFormat(conf.Transactions.Format); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *nowFlag != "" {
		conf.Now = *nowFlag
	}
	now, err := conf.EvaluationTime(time.Now())
	if err != nil {
		logger.Fatal("failed to determine evaluation time",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range conf.ValidateConfiguration(now) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	transactions, err := conf.LoadTransactions(logger)
	if err != nil {
		logger.Fatal("failed to load transactions",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	policy := adapters.PolicyFromConfig(conf)
	engine := suggest.NewEngineWithPolicy(logger, policy)
	result := engine.Run(transactions, adapters.GoalFromConfig(conf.Goal, logger), now)

	logger.Info("generated suggestions",
		zap.String("op", "main"),
		zap.Int("transactions", len(transactions)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Time("now", now),
	)

	if err := output.Print(outputFormat, output.NewReport(result, nil, policy.CurrencySymbol)); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
