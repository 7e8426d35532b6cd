// Package config loads intake's settings from defaults, an optional YAML
// file and INTAKE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: storage.bucket is read from
// INTAKE_STORAGE_BUCKET.
const EnvPrefix = "INTAKE"

// Config is the complete configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Intake   IntakeConfig   `mapstructure:"intake"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	// Path is the SQLite file. INTAKE_DB overrides it.
	Path string `mapstructure:"path"`
}

// StorageConfig selects where inline attachments are uploaded.
type StorageConfig struct {
	// Driver is "s3" or "memory".
	Driver         string `mapstructure:"driver"`
	Bucket         string `mapstructure:"bucket"`
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	Prefix         string `mapstructure:"prefix"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// IntakeConfig tunes the creation engine.
type IntakeConfig struct {
	ReservedEmailDomain  string `mapstructure:"reserved_email_domain"`
	DefaultPhaseEffort   int    `mapstructure:"default_phase_effort"`
	PlacementHour        int    `mapstructure:"placement_hour"`
	Timezone             string `mapstructure:"timezone"`
	DefaultTicketMessage string `mapstructure:"default_ticket_message"`
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDBPath()},
		Storage:  StorageConfig{Driver: "memory"},
		Intake: IntakeConfig{
			ReservedEmailDomain:  "ekyte.com",
			DefaultPhaseEffort:   60,
			PlacementHour:        8,
			Timezone:             "Local",
			DefaultTicketMessage: "<p>Opened through the integration.</p>",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "intake.db"
	}
	return filepath.Join(home, ".intake", "intake.db")
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.bucket", d.Storage.Bucket)
	v.SetDefault("storage.region", d.Storage.Region)
	v.SetDefault("storage.endpoint", d.Storage.Endpoint)
	v.SetDefault("storage.prefix", d.Storage.Prefix)
	v.SetDefault("storage.public_base_url", d.Storage.PublicBaseURL)
	v.SetDefault("storage.force_path_style", d.Storage.ForcePathStyle)

	v.SetDefault("intake.reserved_email_domain", d.Intake.ReservedEmailDomain)
	v.SetDefault("intake.default_phase_effort", d.Intake.DefaultPhaseEffort)
	v.SetDefault("intake.placement_hour", d.Intake.PlacementHour)
	v.SetDefault("intake.timezone", d.Intake.Timezone)
	v.SetDefault("intake.default_ticket_message", d.Intake.DefaultTicketMessage)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads the configuration. An empty path skips the config file; a
// missing named file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if db := os.Getenv(EnvPrefix + "_DB"); db != "" {
		cfg.Database.Path = db
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *IntakeConfig) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
