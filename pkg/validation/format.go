// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/print-configurator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateLogLevel accepts an empty level (use the default) or one of the
// levels the CLI logger understands.
func ValidateLogLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
}

// ValidateLogFormat accepts an empty format (use the default), json or console.
func ValidateLogFormat(format string) error {
	switch format {
	case "", constants.LogFormatJSON, constants.LogFormatConsole:
		return nil
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}
}
