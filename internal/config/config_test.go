package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/print-configurator/pkg/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const fullConfig = `
logging:
  level: Debug
  format: console
output:
  format: csv
catalog:
  path: ./catalog.yaml
  productId: 1001
  coverCd: 1
simulation:
  mode: force-run
  shards: 4
  seed: 42
  quantities: [100, 500, 1000]
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{name: "Non-existent config file", configPath: "nonexistent.yaml", wantError: true},
		{name: "Full config", configPath: writeConfig(t, fullConfig)},
		{name: "Malformed YAML", configPath: writeConfig(t, "catalog: [unterminated"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config == nil {
				t.Fatalf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationValues(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected debug", conf.Logging.Level)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected csv", conf.Output.Format)
	}
	if conf.Catalog.ProductID != 1001 || conf.Catalog.CoverCd != 1 {
		t.Errorf("Catalog = %+v, expected productId 1001 coverCd 1", conf.Catalog)
	}
	if conf.Simulation.Mode != SimulationModeForce || !conf.Simulation.ForceRun() {
		t.Errorf("Simulation.Mode = %q, expected %q", conf.Simulation.Mode, SimulationModeForce)
	}
	if conf.Simulation.Shards != 4 || conf.Simulation.Seed != 42 {
		t.Errorf("Simulation = %+v", conf.Simulation)
	}
	if len(conf.Simulation.Quantities) != 3 || conf.Simulation.Quantities[2] != 1000 {
		t.Errorf("Simulation.Quantities = %v", conf.Simulation.Quantities)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, "catalog:\n  productId: 7\n"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q, expected pretty", conf.Output.Format)
	}
	if conf.Catalog.Path != constants.DefaultCatalogFile {
		t.Errorf("Catalog.Path = %q, expected %q", conf.Catalog.Path, constants.DefaultCatalogFile)
	}
	if conf.Simulation.Mode != SimulationModeAll || conf.Simulation.Shards != 1 || conf.Simulation.ProgressInterval != 100 {
		t.Errorf("Simulation defaults = %+v", conf.Simulation)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("PRINTCFG_CATALOG_PRODUCTID", "2001")
	t.Setenv("PRINTCFG_OUTPUT_FORMAT", "csv")
	t.Setenv("PRINTCFG_CATALOG_POSTPROCESSPATH", " export.json ")

	conf, err := LoadConfiguration(writeConfig(t, "catalog:\n  productId: 7\n"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Catalog.ProductID != 2001 {
		t.Errorf("Catalog.ProductID = %d, expected env override 2001", conf.Catalog.ProductID)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected env override csv", conf.Output.Format)
	}
	if conf.Catalog.PostProcessPath != "export.json" {
		t.Errorf("Catalog.PostProcessPath = %q, expected trimmed env override export.json", conf.Catalog.PostProcessPath)
	}
}

func TestConfigurationValidate(t *testing.T) {
	valid := func() Configuration {
		return Configuration{Catalog: CatalogConfig{ProductID: 1}}
	}

	tests := []struct {
		name    string
		mutate  func(*Configuration)
		errPart string
	}{
		{name: "defaults are valid", mutate: func(*Configuration) {}},
		{name: "bad output format", mutate: func(c *Configuration) { c.Output.Format = "xml" }, errPart: "output format"},
		{name: "bad log level", mutate: func(c *Configuration) { c.Logging.Level = "trace" }, errPart: "invalid log level"},
		{name: "bad log format", mutate: func(c *Configuration) { c.Logging.Format = "text" }, errPart: "invalid log format"},
		{name: "missing product", mutate: func(c *Configuration) { c.Catalog.ProductID = 0 }, errPart: "productId"},
		{name: "negative cover", mutate: func(c *Configuration) { c.Catalog.CoverCd = -1 }, errPart: "coverCd"},
		{name: "bad simulation mode", mutate: func(c *Configuration) { c.Simulation.Mode = "maybe" }, errPart: "simulation: simulation mode"},
		{name: "too many shards", mutate: func(c *Configuration) { c.Simulation.Shards = 1000 }, errPart: "shards"},
		{name: "non-positive quantity", mutate: func(c *Configuration) { c.Simulation.Quantities = []int{100, 0} }, errPart: "quantity 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid()
			tt.mutate(&conf)
			err := conf.Validate()
			if tt.errPart == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Validate() error = %v, expected it to contain %q", err, tt.errPart)
			}
		})
	}
}

func TestCanonicalSimulationMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "", expected: SimulationModeAll},
		{input: "Full", expected: SimulationModeAll},
		{input: "SAMPLING", expected: SimulationModeSample},
		{input: "force_run", expected: SimulationModeForce},
		{input: "Custom", expected: "custom"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if actual := CanonicalSimulationMode(tc.input); actual != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestSimulationConfigNilSafety(t *testing.T) {
	var s *SimulationConfig
	s.Normalize()
	if err := s.Validate(); err == nil {
		t.Errorf("Validate() on nil config expected error")
	}
}
