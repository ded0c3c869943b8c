package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/output"
)

const (
	EnvPrefix     = "KEIBA_"
	EnvConfigFile = "KEIBA_CONFIG"
)

var sincePattern = regexp.MustCompile(`^[0-9]{8}$`)

// LoadDotEnv reads variables from a .env file in the working directory, if there
// is one. Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: .env: %v", ErrLoadConfig, err)
	}
	return nil
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file at path, or at KEIBA_CONFIG when path is empty
//  3. env (prefix KEIBA_, "__" between nested keys)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// KEIBA_SCRAPE__MAX_RACES -> scrape.max_races
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// The config file path is not a setting.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by type alone.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if c.Logging.MaxAge < 0 {
		return fmt.Errorf("%w: logging.max_age must not be negative", ErrInvalidConfig)
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}
	if !sincePattern.MatchString(c.Scrape.Since) {
		return fmt.Errorf("%w: scrape.since must be YYYYMMDD, got %q", ErrInvalidConfig, c.Scrape.Since)
	}
	if c.Scrape.Rate < 0 {
		return fmt.Errorf("%w: scrape.rate must not be negative", ErrInvalidConfig)
	}
	if c.Scrape.MaxRaces < 0 {
		return fmt.Errorf("%w: scrape.max_races must not be negative", ErrInvalidConfig)
	}
	return nil
}
