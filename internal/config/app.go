// Package config handles configuration loading and management
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var errUnknownFormat = errors.New("unknown report format")

// AppConfig holds the listener thresholds and report settings.
type AppConfig struct {
	// Path is the file the configuration was read from, empty when none existed.
	Path string `yaml:"-"`
	// Format is "text" or "table".
	Format string `yaml:"format,omitempty"`
	// Values holds the raw listener keys. Values are passed to the listener
	// untouched; see listener.ParseConfig.
	Values map[string]any `yaml:",inline"`
}

// Default returns a configuration with no listener overrides.
func Default() *AppConfig {
	return &AppConfig{
		Format: FormatText,
		Values: map[string]any{},
	}
}

// Load reads the configuration file at path (a missing file is not an error)
// and then applies environment overrides, including those from a .env file.
func Load(path string) (*AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	if env := os.Getenv(EnvConfigFile); env != "" {
		path = env
	}

	cfg := Default()

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		cfg.Path = path
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if cfg.Values == nil {
		cfg.Values = map[string]any{}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	overrides := map[string]string{
		EnvShowOnlyIfEdgeIsExceeded: listener.KeyShowOnlyIfEdgeIsExceeded,
		EnvExecutionTimeEdge:        listener.KeyExecutionTimeEdge,
		EnvMemoryUsageEdge:          listener.KeyMemoryUsageEdge,
		EnvMemoryPeakDifferenceEdge: listener.KeyMemoryPeakDifferenceEdge,
	}

	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			c.Values[key] = value
		}
	}

	c.Format = getEnv(EnvFormat, c.Format)
}

// Set overrides a single listener key.
func (c *AppConfig) Set(key string, value any) {
	c.Values[key] = value
}

// Validate checks the report settings. Listener values are not validated.
func (c *AppConfig) Validate() error {
	switch c.Format {
	case FormatText, FormatTable:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, c.Format)
	}
}

// Listener returns a copy of the listener key/value map.
func (c *AppConfig) Listener() map[string]any {
	values := make(map[string]any, len(c.Values))
	for k, v := range c.Values {
		values[k] = v
	}

	return values
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func (c *AppConfig) String() string {
	source := c.Path
	if source == "" {
		source = "(defaults)"
	}

	effective := listener.ParseConfig(discardLogger(), c.Values)

	return fmt.Sprintf(`Current Configuration:
======================
Source:                       %s
Format:                       %s
Show Only If Edge Exceeded:   %t
Execution Time Edge:          %sms
Memory Usage Edge:            %s bytes
Memory Peak Difference Edge:  %s bytes`,
		source,
		c.Format,
		effective.ShowOnlyIfEdgeIsExceeded,
		formatEdge(effective.ExecutionTimeEdge),
		formatEdge(effective.MemoryUsageEdge),
		formatEdge(effective.MemoryPeakDifferenceEdge),
	)
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
