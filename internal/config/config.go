// Package config defines the run configuration of print-configurator and
// loads it from YAML with environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/print-configurator/pkg/constants"
	"github.com/iwvelando/print-configurator/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PRINTCFG_CATALOG_PATH.
const EnvPrefix = "PRINTCFG"

// Configuration holds all configuration for print-configurator.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Simulation SimulationConfig `yaml:"simulation,omitempty" mapstructure:"simulation"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// CatalogConfig points at the catalog snapshot and the product part to work on.
type CatalogConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	ProductID int    `yaml:"productId" mapstructure:"productId"`
	CoverCd   int    `yaml:"coverCd,omitempty" mapstructure:"coverCd"`

	// PostProcessPath optionally points at a raw {"jobgrouplist":[...]}
	// export that replaces the job groups of the snapshot product.
	PostProcessPath string `yaml:"postProcessPath,omitempty" mapstructure:"postProcessPath"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Every key can be overridden from the environment.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.Normalize()
	return &configuration, nil
}

// bindEnv registers the keys AutomaticEnv can only see once they are known
// to viper, so overrides work for keys missing from the file.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"logging.level", "logging.format", "logging.outputFile",
		"output.format",
		"catalog.path", "catalog.productId", "catalog.coverCd", "catalog.postProcessPath",
		"simulation.mode", "simulation.shards", "simulation.seed", "simulation.progressInterval",
	} {
		_ = v.BindEnv(key)
	}
}

// Normalize applies defaults and canonical values.
func (c *Configuration) Normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}

	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		c.Catalog.Path = constants.DefaultCatalogFile
	}
	c.Catalog.PostProcessPath = strings.TrimSpace(c.Catalog.PostProcessPath)

	c.Simulation.Normalize()
}

// Validate returns the first configuration error.
func (c *Configuration) Validate() error {
	c.Normalize()

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.Catalog.ProductID <= 0 {
		return fmt.Errorf("catalog productId must be positive, got %d", c.Catalog.ProductID)
	}
	if c.Catalog.CoverCd < 0 {
		return fmt.Errorf("catalog coverCd must not be negative, got %d", c.Catalog.CoverCd)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}
