package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/config"
	"github.com/iwvelando/print-configurator/internal/options"
	"github.com/iwvelando/print-configurator/internal/postprocess"
	"github.com/iwvelando/print-configurator/internal/pricing"
	"github.com/iwvelando/print-configurator/pkg/constants"
	"github.com/iwvelando/print-configurator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = constants.LogFormatJSON
	}

	var cfg zap.Config
	switch format {
	case constants.LogFormatConsole:
		cfg = zap.NewDevelopmentConfig()
	case constants.LogFormatJSON:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	// results go to stdout, logs stay on stderr
	cfg.OutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

// globalFlags are the overrides shared by every subcommand.
type globalFlags struct {
	configPath   string
	logLevel     string
	outputFormat string
	catalogPath  string
	postProcPath string
	productID    int
	coverCd      int
}

// app is the state every subcommand works on.
type app struct {
	conf     *config.Configuration
	logger   *zap.Logger
	catalog  *catalog.Catalog
	product  *catalog.Product
	engine   *options.Engine
	resolver *pricing.Resolver
}

func (f *globalFlags) load(cmd *cobra.Command) (*app, error) {
	conf := &config.Configuration{}
	if _, err := os.Stat(f.configPath); err == nil {
		conf, err = config.LoadConfiguration(f.configPath)
		if err != nil {
			return nil, err
		}
	} else if cmd.Flags().Changed("config") {
		return nil, fmt.Errorf("config file %s: %w (start from %s)", f.configPath, err, constants.ExampleConfigFile)
	}

	if f.outputFormat != "" {
		conf.Output.Format = f.outputFormat
	}
	if f.catalogPath != "" {
		conf.Catalog.Path = f.catalogPath
	}
	if f.postProcPath != "" {
		conf.Catalog.PostProcessPath = f.postProcPath
	}
	if f.productID != 0 {
		conf.Catalog.ProductID = f.productID
	}
	if cmd.Flags().Changed("cover") {
		conf.Catalog.CoverCd = f.coverCd
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, f.logLevel)
	if err != nil {
		return nil, err
	}

	snapshot, err := catalog.LoadFile(conf.Catalog.Path)
	if err != nil {
		return nil, err
	}
	product, err := snapshot.Product(conf.Catalog.ProductID)
	if err != nil {
		return nil, err
	}
	if conf.Catalog.PostProcessPath != "" {
		if err := loadPostProcesses(logger, product, conf.Catalog.PostProcessPath, conf.Catalog.CoverCd); err != nil {
			return nil, err
		}
	}

	validator := validation.CatalogValidator{Catalog: snapshot, ProductID: product.ProductID}
	for _, warning := range validator.ValidateAll() {
		logger.Warn("Catalog warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return &app{
		conf:     conf,
		logger:   logger,
		catalog:  snapshot,
		product:  product,
		engine:   options.NewEngine(logger, product),
		resolver: pricing.NewResolver(logger, product),
	}, nil
}

// loadPostProcesses replaces the job groups of product with a raw
// post-process export.
func loadPostProcesses(logger *zap.Logger, product *catalog.Product, path string, coverCd int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read post-process export: %w", err)
	}
	groups, err := postprocess.ParseJobGroups(data, coverCd)
	if err != nil {
		return fmt.Errorf("post-process export %s: %w", path, err)
	}
	product.JobGroups = groups
	logger.Info("loaded post-process export",
		zap.String("op", "main"),
		zap.String("path", path),
		zap.Int("jobGroups", len(groups)),
	)
	return nil
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "print-configurator",
		Short:         "Resolve print product options, prices and publish readiness",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv")
	root.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "catalog snapshot override")
	root.PersistentFlags().StringVar(&flags.postProcPath, "post-processes", "", "raw post-process export (JSON) replacing the catalog job groups")
	root.PersistentFlags().IntVar(&flags.productID, "product", 0, "product id override")
	root.PersistentFlags().IntVar(&flags.coverCd, "cover", 0, "cover code override")

	root.AddCommand(
		newOptionsCommand(flags),
		newValidateCommand(flags),
		newPriceCommand(flags),
		newSimulateCommand(flags),
		newCompletenessCommand(flags),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
