package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StoreFile, cfg.Profiles.Store)
	assert.Equal(t, "csv_profiles.json", cfg.Profiles.Path)
	assert.Equal(t, "shift_jis", cfg.Convert.InputEncoding)
	assert.Equal(t, "shift_jis", cfg.Convert.OutputEncoding)
	assert.Equal(t, 10, cfg.Convert.PreviewRows)
	assert.Equal(t, int64(104857600), cfg.Convert.MaxFileSize)
	assert.True(t, cfg.Convert.CRLF())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Rate.Enabled)
	assert.Equal(t, 100, cfg.Rate.RequestsPerMinute)
	assert.Empty(t, cfg.Security.APIKeys)
}

func TestLoad_Lists(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"API_KEYS":        "alpha, beta,,",
		"TRUSTED_PROXIES": "10.0.0.0/8",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, cfg.Security.APIKeys)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Security.TrustedProxies)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OUTPUT_ENCODING", "utf-8")
	t.Setenv("LINE_ENDING", "LF")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "utf-8", cfg.Convert.OutputEncoding)
	assert.False(t, cfg.Convert.CRLF())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"PROFILE_STORE": "postgres",
		"DB_URL":        "postgres://localhost/alttest",
		"PORT":          "3000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/alttest", cfg.Database.URL)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_Sizes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1024", 1024},
		{"10MB", 10 << 20},
		{"512kb", 512 << 10},
		{"1 GB", 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := LoadFrom(MapLookup(map[string]string{"MAX_FILE_SIZE": tt.in}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Convert.MaxFileSize)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port type", map[string]string{"SERVER_PORT": "eighty"}, "SERVER_PORT"},
		{"bad duration", map[string]string{"SERVER_READ_TIMEOUT": "soon"}, "invalid duration"},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "must be 1-65535"},
		{"unknown store", map[string]string{"PROFILE_STORE": "redis"}, "PROFILE_STORE"},
		{"postgres without url", map[string]string{"PROFILE_STORE": "postgres"}, "DATABASE_URL is required"},
		{"bad encoding", map[string]string{"INPUT_ENCODING": "latin1"}, "INPUT_ENCODING"},
		{"bad line ending", map[string]string{"LINE_ENDING": "cr"}, "LINE_ENDING"},
		{"bad log level", map[string]string{"LOG_LEVEL": "trace"}, "LOG_LEVEL"},
		{"zero preview rows", map[string]string{"PREVIEW_ROWS": "0"}, "PREVIEW_ROWS"},
		{"zero rate limit", map[string]string{"RATE_LIMIT_CONVERT": "0"}, "RATE_LIMIT_CONVERT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(MapLookup(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Profiles: ProfilesConfig{Store: StoreFile, Path: "p.json"},
		Server:   ServerConfig{Port: 0, ShutdownTimeout: time.Second},
		Convert:  ConvertConfig{InputEncoding: "x", OutputEncoding: "utf-8", PreviewRows: 10, MaxFileSize: 1, LineEnding: "lf"},
		Logging:  LoggingConfig{Level: "info", Format: "xml"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "INPUT_ENCODING")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestConfig_StringMasksURL(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"PROFILE_STORE": "postgres",
		"DATABASE_URL":  "postgres://user:secret@db/app",
	}))
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "secret")
	assert.Contains(t, s, "[MASKED]")

	cfg.Security.APIKeys = []string{"top-secret-key"}
	assert.NotContains(t, cfg.String(), "top-secret-key")
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", (&ServerConfig{Host: "0.0.0.0", Port: 8080}).Addr())
	assert.Equal(t, ":9000", (&ServerConfig{Port: 9000}).Addr())
}
