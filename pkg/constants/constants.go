// Package constants provides shared constants for the print-configurator application.
package constants

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Logging constants
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultCatalogFile is the catalog snapshot read when none is configured
	DefaultCatalogFile = "catalog.yaml"
)

// Pricing constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons, in won
	CurrencyTolerance = 0.5

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
