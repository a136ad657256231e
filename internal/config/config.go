// Package config loads application settings from defaults, an optional config file
// and GRADECALC_* environment variables, and builds the auth settings read from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every application environment variable.
const EnvPrefix = "GRADECALC"

// DefaultSemester is the semester grades are saved under when none is configured.
const DefaultSemester = "Fall 2025"

// defaultConfigFiles are tried in order when no explicit path is given.
var defaultConfigFiles = []string{"gradecalc.yaml", "gradecalc.yml", "gradecalc.json"}

// Config is the application configuration.
type Config struct {
	Port        int           `mapstructure:"port"`
	DatabaseURL string        `mapstructure:"database_url"`
	Semester    string        `mapstructure:"semester"`
	LinearGPA   bool          `mapstructure:"linear_gpa"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	CORSOrigin  string        `mapstructure:"cors_origin"`

	// ConfigFile is the file the values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// Load builds the configuration. An explicit path must exist; otherwise the default
// file names are tried in the working directory and silently skipped when absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("semester", DefaultSemester)
	v.SetDefault("linear_gpa", false)
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("cors_origin", "*")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database_url: %w", err)
	}

	configFile, err := readConfigFile(v, path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ConfigFile = configFile

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, candidate := range defaultConfigFiles {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Semester == "" {
		return fmt.Errorf("semester cannot be empty")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl cannot be negative, got %s", c.SessionTTL)
	}
	return nil
}
