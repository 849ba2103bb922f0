package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"sickstat/adapters/excel"
	"sickstat/internal"
	"sickstat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	UI       UIConfig
	Data     DataConfig
	Analysis AnalysisConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds JSON API server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
}

// UIConfig holds report UI settings
type UIConfig struct {
	Port string
}

// DataConfig describes the optional dataset preloaded by the CLI and report UI
type DataConfig struct {
	File     string
	Encoding excel.SourceEncoding
	Sheet    string
}

// AnalysisConfig holds the defaults used when an analyst leaves a parameter unset
type AnalysisConfig struct {
	DefaultAlpha        float64
	DefaultAgeThreshold int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level internal.LogLevel
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// Defaults matching the original dashboard sliders
const (
	DefaultAlpha          = 0.05
	DefaultAgeThreshold   = 35
	DefaultMaxUploadBytes = 32 << 20
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}
	config.Server = *serverConfig
	config.UI = UIConfig{Port: getEnvOrDefault("UI_PORT", "8081")}

	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	loggingConfig, err := loadLoggingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load logging configuration")
	}
	config.Logging = *loggingConfig

	metricsEnabled, err := getEnvBoolOrDefault("METRICS_ENABLED", true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load metrics configuration")
	}
	config.Metrics = MetricsConfig{Enabled: metricsEnabled}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration Load produces with an empty environment
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release", MaxUploadBytes: DefaultMaxUploadBytes},
		UI:       UIConfig{Port: "8081"},
		Data:     DataConfig{Encoding: excel.EncodingWindows1251},
		Analysis: AnalysisConfig{DefaultAlpha: DefaultAlpha, DefaultAgeThreshold: DefaultAgeThreshold},
		Logging:  LoggingConfig{Level: internal.LogLevelInfo},
		Metrics:  MetricsConfig{Enabled: true},
	}
}

// ReaderConfig builds the record reader configuration
func (c *Config) ReaderConfig() excel.ReaderConfig {
	return excel.ReaderConfig{Encoding: c.Data.Encoding, Sheet: c.Data.Sheet}
}

func loadServerConfig() (*ServerConfig, error) {
	maxUpload, err := getEnvIntOrDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(maxUpload),
	}, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	alpha, err := getEnvFloatOrDefault("DEFAULT_ALPHA", DefaultAlpha)
	if err != nil {
		return nil, err
	}
	threshold, err := getEnvIntOrDefault("DEFAULT_AGE_THRESHOLD", DefaultAgeThreshold)
	if err != nil {
		return nil, err
	}
	return &AnalysisConfig{DefaultAlpha: alpha, DefaultAgeThreshold: threshold}, nil
}

func loadDataConfig() (*DataConfig, error) {
	encoding, err := excel.ParseSourceEncoding(getEnvOrDefault("SOURCE_ENCODING", string(excel.EncodingWindows1251)))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	return &DataConfig{
		File:     getEnvOrDefault("DATA_FILE", ""),
		Encoding: encoding,
		Sheet:    getEnvOrDefault("DATA_SHEET", ""),
	}, nil
}

func loadLoggingConfig() (*LoggingConfig, error) {
	level, err := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	return &LoggingConfig{Level: level}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if a := config.Analysis.DefaultAlpha; math.IsNaN(a) || a < 0 || a > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("DEFAULT_ALPHA %v is outside [0, 1]", a))
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

// The typed helpers reject values that do not parse instead of falling back to the default
func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return boolValue, nil
}
