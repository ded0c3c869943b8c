// Package config defines the keiba configuration and how it is loaded.
//
// Values are layered, lowest precedence first: built-in defaults, an optional YAML
// file, and KEIBA_ environment variables. Command-line flags are applied on top by
// the cli package. Nested keys are separated by a double underscore in the
// environment, so scrape.max_races is KEIBA_SCRAPE__MAX_RACES.
package config

import (
	"time"

	"github.com/pfrederiksen/keiba-flat/internal/scraper"
	"github.com/pfrederiksen/keiba-flat/internal/storage"
)

// Config contains process configuration.
type Config struct {
	// DataDir roots relative race file names.
	DataDir string `koanf:"data_dir"`

	Logging  LoggingConfig  `koanf:"logging"`
	Scrape   ScrapeConfig   `koanf:"scrape"`
	Output   OutputConfig   `koanf:"output"`
	Postgres PostgresConfig `koanf:"postgres"`
	S3       S3Config       `koanf:"s3"`

	// MetricsFile receives a Prometheus text dump after each run when set.
	MetricsFile string `koanf:"metrics_file"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Output string `koanf:"output"` // stderr, stdout or a file path
	MaxAge int    `koanf:"max_age"` // days to keep rotated files, 0 disables rotation
}

type ScrapeConfig struct {
	StartURL  string        `koanf:"start_url"`
	Since     string        `koanf:"since"`
	UserAgent string        `koanf:"user_agent"`
	Rate      float64       `koanf:"rate"`
	Burst     int           `koanf:"burst"`
	Timeout   time.Duration `koanf:"timeout"`
	MaxRaces  int           `koanf:"max_races"`
}

type OutputConfig struct {
	Format      string `koanf:"format"`
	Compression string `koanf:"compression"`
}

type PostgresConfig struct {
	URL   string `koanf:"url"`
	Table string `koanf:"table"`
}

type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	PathStyle       bool   `koanf:"path_style"`
	Prefix          string `koanf:"prefix"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// New returns a Config holding the defaults.
func New() *Config {
	sc := scraper.DefaultConfig()
	return &Config{
		DataDir: ".",
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
		Scrape: ScrapeConfig{
			StartURL:  sc.StartURL,
			Since:     sc.Since,
			UserAgent: sc.UserAgent,
			Rate:      sc.Rate,
			Burst:     sc.Burst,
			Timeout:   sc.Timeout,
		},
		Output: OutputConfig{
			Format:      "csv",
			Compression: "snappy",
		},
		Postgres: PostgresConfig{
			Table: storage.DefaultTable,
		},
		S3: S3Config{
			Region: "ap-northeast-1",
			Prefix: "keiba",
		},
	}
}

// ScraperConfig converts the scrape section for the scraper package.
func (c *Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		StartURL:  c.Scrape.StartURL,
		Since:     c.Scrape.Since,
		UserAgent: c.Scrape.UserAgent,
		Timeout:   c.Scrape.Timeout,
		Rate:      c.Scrape.Rate,
		Burst:     c.Scrape.Burst,
		MaxRaces:  c.Scrape.MaxRaces,
	}
}

// StorageS3Config converts the s3 section for the storage package.
func (c *Config) StorageS3Config() storage.S3Config {
	return storage.S3Config{
		Bucket:          c.S3.Bucket,
		Region:          c.S3.Region,
		Endpoint:        c.S3.Endpoint,
		PathStyle:       c.S3.PathStyle,
		Prefix:          c.S3.Prefix,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
	}
}
