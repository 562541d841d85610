// Package config provides centralized configuration management for the
// server and the CLI. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Profile store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Profiles ProfilesConfig
	Convert  ConvertConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings. Only used when
// PROFILE_STORE=postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ProfilesConfig selects where saved profiles live.
type ProfilesConfig struct {
	// Store is the backend: file or postgres (default: file)
	Store string `env:"PROFILE_STORE" default:"file"`

	// Path is the profile document for the file store; .yaml/.yml selects
	// YAML (default: csv_profiles.json)
	Path string `env:"PROFILE_PATH" default:"csv_profiles.json"`
}

// ConvertConfig holds the defaults applied when neither the request nor the
// profile sets a value.
type ConvertConfig struct {
	// InputEncoding is tried first when reading: utf-8 or shift_jis (default: shift_jis)
	InputEncoding string `env:"INPUT_ENCODING" default:"shift_jis"`

	// OutputEncoding of converted files: utf-8 or shift_jis (default: shift_jis)
	OutputEncoding string `env:"OUTPUT_ENCODING" default:"shift_jis"`

	// PreviewRows is the number of rows shown in a preview (default: 10)
	PreviewRows int `env:"PREVIEW_ROWS" default:"10"`

	// MaxFileSize is the maximum accepted input size in bytes (default: 100MB)
	MaxFileSize int64 `env:"MAX_FILE_SIZE" default:"104857600"`

	// LineEnding of converted files: lf or crlf (default: crlf)
	LineEnding string `env:"LINE_ENDING" default:"crlf"`
}

// CRLF reports whether converted files use CRLF line endings.
func (c ConvertConfig) CRLF() bool {
	return c.LineEnding == "crlf"
}

// RateLimitConfig holds per-IP request limits for the web server.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute applies to every route (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ConvertLimit applies to preview and convert uploads (default: 20)
	ConvertLimit int `env:"RATE_LIMIT_CONVERT" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// APIKeys guard profile changes over the API when non-empty
	// (comma-separated)
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP and X-Forwarded-For headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
