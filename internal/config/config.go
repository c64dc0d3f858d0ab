// Package config loads soundcheck settings from defaults, an optional YAML
// file, and the environment, in that order of precedence.
package config

import (
	"time"
)

const (
	DriverPostgREST = "postgrest"
	DriverSQLite    = "sqlite"

	// ConfigPathEnvVar names the variable that points at a YAML config file.
	ConfigPathEnvVar = "CONFIG_PATH"
)

// DefaultConfigPaths are searched when no path is given.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects and configures the catalog backend.
type StoreConfig struct {
	Driver     string        `koanf:"driver" validate:"oneof=postgrest sqlite"`
	URL        string        `koanf:"url" validate:"required_if=Driver postgrest"`
	APIKey     string        `koanf:"api_key" validate:"required_if=Driver postgrest"`
	SQLitePath string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	Timeout    time.Duration `koanf:"timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level      string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format     string `koanf:"format" validate:"oneof=json console"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     DriverPostgREST,
			SQLitePath: "catalog.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}
