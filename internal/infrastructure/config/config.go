package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// Config is a struct that holds application configuration
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Change ChangeConfig `toml:"change"`
	Watch  WatchConfig  `toml:"watch"`
	Health HealthConfig `toml:"health"`
	Log    LogConfig    `toml:"log"`
}

// StoreConfig holds the paths of the local YAML stores
type StoreConfig struct {
	Directory string `toml:"directory"`
}

// RulesPath는 규칙 파일 경로를 반환합니다
func (c StoreConfig) RulesPath() string {
	return filepath.Join(c.Directory, "app_rules.yaml")
}

// BaselineDir은 인터페이스별 원본 MAC 파일이 저장되는 디렉터리를 반환합니다
func (c StoreConfig) BaselineDir() string {
	return filepath.Join(c.Directory, "baselines")
}

// FilterPath는 벤더 프리픽스 필터 파일 경로를 반환합니다
func (c StoreConfig) FilterPath() string {
	return filepath.Join(c.Directory, "filter.yaml")
}

// HistoryPath는 변경 이력 파일 경로를 반환합니다
func (c StoreConfig) HistoryPath() string {
	return filepath.Join(c.Directory, "history.yaml")
}

// VendorPath는 벤더 데이터베이스 파일 경로를 반환합니다
func (c StoreConfig) VendorPath() string {
	return filepath.Join(c.Directory, "vendors.yaml")
}

// ChangeConfig holds the MAC change orchestration settings
type ChangeConfig struct {
	LinkDownRetries int           `toml:"link_down_retries"`
	RetryDelay      time.Duration `toml:"retry_delay"`
	SettleDelay     time.Duration `toml:"settle_delay"`
	CommandTimeout  time.Duration `toml:"command_timeout"`
}

// WatchConfig holds the rule watch loop settings
type WatchConfig struct {
	Interval time.Duration `toml:"interval"`
	Backoff  BackoffConfig `toml:"backoff"`
}

// BackoffConfig holds the exponential backoff settings for idle watch cycles
type BackoffConfig struct {
	Enabled     bool          `toml:"enabled"`
	MaxInterval time.Duration `toml:"max_interval"`
	Multiplier  float64       `toml:"multiplier"`
}

// HealthConfig is a struct that holds health check configuration
type HealthConfig struct {
	Port string `toml:"port"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `toml:"level"`
}

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// FileConfigLoader loads configuration from an optional TOML file and
// applies environment variable overrides on top
type FileConfigLoader struct {
	path string
	fs   interfaces.FileSystem
}

// NewFileConfigLoader creates a new FileConfigLoader.
// path가 비어있으면 기본 경로(<store dir>/config.toml)를 사용합니다
func NewFileConfigLoader(path string, fs interfaces.FileSystem) ConfigLoader {
	return &FileConfigLoader{path: path, fs: fs}
}

// Load loads configuration: defaults, then TOML file, then environment overrides
func (l *FileConfigLoader) Load() (*Config, error) {
	config := defaultConfig()

	path := l.path
	if path == "" {
		path = filepath.Join(config.Store.Directory, "config.toml")
	}
	if l.fs.Exists(path) {
		content, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, errors.NewSystemError("failed to read config file", err)
		}
		if err := toml.Unmarshal(content, config); err != nil {
			return nil, errors.NewValidationError("failed to parse config file", err)
		}
	}

	applyEnvOverrides(config)

	if err := l.validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Directory: defaultStoreDir(),
		},
		Change: ChangeConfig{
			LinkDownRetries: 3,
			RetryDelay:      1 * time.Second,
			SettleDelay:     1 * time.Second,
			CommandTimeout:  30 * time.Second,
		},
		Watch: WatchConfig{
			Interval: 30 * time.Second,
			Backoff: BackoffConfig{
				Enabled:     true,
				MaxInterval: 5 * time.Minute,
				Multiplier:  2.0,
			},
		},
		Health: HealthConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "macshift")
	}
	return filepath.Join(".", "macshift")
}

func applyEnvOverrides(config *Config) {
	config.Store.Directory = getEnvOrDefault("MACSHIFT_STORE_DIR", config.Store.Directory)
	config.Change.LinkDownRetries = getEnvIntOrDefault("MACSHIFT_LINK_DOWN_RETRIES", config.Change.LinkDownRetries)
	config.Change.RetryDelay = getEnvDurationOrDefault("MACSHIFT_RETRY_DELAY", config.Change.RetryDelay)
	config.Change.SettleDelay = getEnvDurationOrDefault("MACSHIFT_SETTLE_DELAY", config.Change.SettleDelay)
	config.Change.CommandTimeout = getEnvDurationOrDefault("MACSHIFT_COMMAND_TIMEOUT", config.Change.CommandTimeout)
	config.Watch.Interval = getEnvDurationOrDefault("MACSHIFT_WATCH_INTERVAL", config.Watch.Interval)
	config.Health.Port = getEnvOrDefault("MACSHIFT_HEALTH_PORT", config.Health.Port)
	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)
}

// validate validates the configuration
func (l *FileConfigLoader) validate(config *Config) error {
	if config.Store.Directory == "" {
		return errors.NewValidationError("store directory not configured", nil)
	}
	if config.Change.LinkDownRetries < 1 {
		return errors.NewValidationError("invalid link down retry count", nil)
	}
	if config.Change.RetryDelay < 0 || config.Change.SettleDelay < 0 {
		return errors.NewValidationError("invalid change delay", nil)
	}
	if config.Watch.Interval <= 0 {
		return errors.NewValidationError("invalid watch interval", nil)
	}
	if config.Watch.Backoff.Enabled {
		if config.Watch.Backoff.MaxInterval < config.Watch.Interval {
			return errors.NewValidationError("backoff max interval must not be shorter than the watch interval", nil)
		}
		if config.Watch.Backoff.Multiplier <= 1.0 {
			return errors.NewValidationError("backoff multiplier must be greater than 1", nil)
		}
	}
	if config.Health.Port == "" {
		return errors.NewValidationError("health check port not configured", nil)
	}
	return nil
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
