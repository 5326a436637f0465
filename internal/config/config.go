// Package config loads settings for the stock import job from environment
// variables, applying defaults and validating everything up front so a bad
// setting fails the run before any row is read.
package config

import "time"

// Config holds all job configuration.
type Config struct {
	Import  ImportConfig
	Store   StoreConfig
	Logging LoggingConfig
	Report  ReportConfig
}

// ImportConfig controls where rows come from and whether they are written.
type ImportConfig struct {
	// SourcePath is the CSV file to import (default: storage/app/stock.csv)
	SourcePath string `env:"IMPORT_SOURCE_PATH" default:"storage/app/stock.csv"`

	// SourceEncoding is "auto" or a charset name such as windows-1252 (default: auto)
	SourceEncoding string `env:"IMPORT_SOURCE_ENCODING" default:"auto"`

	// Delimiter is the single field separator character (default: ,)
	Delimiter string `env:"IMPORT_DELIMITER" default:","`

	// DryRun validates and reports without writing (default: false)
	DryRun bool `env:"IMPORT_DRY_RUN" default:"false"`
}

// StoreConfig selects the catalog store.
type StoreConfig struct {
	// Driver is postgres, sqlite or memory (default: postgres)
	Driver string `env:"STORE_DRIVER" default:"postgres"`

	// URL is the connection string or SQLite file path.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// InsertTimeout bounds a single row insert, 0 disables it (default: 10s)
	InsertTimeout time.Duration `env:"DB_INSERT_TIMEOUT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ReportConfig controls extra report outputs.
type ReportConfig struct {
	// HTMLPath, when set, receives an HTML copy of the import report
	HTMLPath string `env:"REPORT_HTML_PATH"`
}
