// Package config provides configuration for the loader. Settings come from
// environment variables with sensible defaults, can be overridden by CLI
// flags, and are validated before the run starts so misconfiguration fails
// fast.
package config

import (
	"path/filepath"
)

// Config holds all loader configuration.
type Config struct {
	Input    InputConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// InputConfig holds input discovery settings.
type InputConfig struct {
	// Dir is the directory scanned for input spreadsheets (default: data)
	Dir string `env:"SHIPLOAD_INPUT_DIR" default:"data"`
}

// DatabaseConfig holds SQLite output settings.
type DatabaseConfig struct {
	// Path is the SQLite database file. When unset it is derived from the
	// input directory as <dir>/shipping_data.db.
	Path string `env:"SHIPLOAD_DB_PATH"`

	// Table is the destination table name (default: shipments)
	Table string `env:"SHIPLOAD_TABLE" default:"shipments"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ResolveDatabasePath fills in the default database path, derived from the
// input directory, when none was configured. Call after flag overrides have
// been applied so the derivation sees the final input directory.
func (c *Config) ResolveDatabasePath() {
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.Input.Dir, "shipping_data.db")
	}
}
