package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"adspend/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds workbook location and dashboard settings
type DataConfig struct {
	WorkbookPath   string
	Sheet          string // empty means the first sheet
	HeaderRow      int    // 1-based worksheet row holding the column headers
	TopN           int
	WatchWorkbook  bool
	LenientNumbers bool // also parse currency, separators, percentages and (x) negatives
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// DefaultWorkbookPath is the file name the dashboards have always read
const DefaultWorkbookPath = "SKU WISE AD SPEND.xlsx"

// Load reads configuration from environment variables and validates it.
// A set but unparseable numeric, boolean or duration value is CONFIG_INVALID.
func Load() (*Config, error) {
	env := &envReader{}
	config := &Config{
		Server:  *loadServerConfig(env),
		Data:    *loadDataConfig(env),
		Logging: LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if len(env.invalid) > 0 {
		return nil, errors.Wrap(
			errors.ConfigInvalid("unparseable values: "+strings.Join(env.invalid, ", ")),
			"configuration validation failed")
	}
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig(env *envReader) *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: env.durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig(env *envReader) *DataConfig {
	return &DataConfig{
		WorkbookPath:   getEnvOrDefault("WORKBOOK_PATH", DefaultWorkbookPath),
		Sheet:          getEnvOrDefault("WORKBOOK_SHEET", ""),
		HeaderRow:      env.intOrDefault("HEADER_ROW", 3),
		TopN:           env.intOrDefault("TOP_N", 10),
		WatchWorkbook:  env.boolOrDefault("WATCH_WORKBOOK", true),
		LenientNumbers: env.boolOrDefault("LENIENT_NUMBERS", false),
	}
}

func validateConfig(config *Config) error {
	if config.Data.WorkbookPath == "" {
		return errors.ConfigInvalid("WORKBOOK_PATH is required")
	}
	if config.Data.HeaderRow < 1 {
		return errors.ConfigInvalid("HEADER_ROW must be at least 1")
	}
	if config.Data.TopN < 1 {
		return errors.ConfigInvalid("TOP_N must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and remembers the ones that were set but malformed
type envReader struct {
	invalid []string
}

func (r *envReader) reject(key, value string) {
	r.invalid = append(r.invalid, fmt.Sprintf("%s=%q", key, value))
}

func (r *envReader) intOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		r.reject(key, value)
		return defaultValue
	}
	return intValue
}

func (r *envReader) boolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		r.reject(key, value)
		return defaultValue
	}
	return boolValue
}

func (r *envReader) durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		r.reject(key, value)
		return defaultValue
	}
	return duration
}
