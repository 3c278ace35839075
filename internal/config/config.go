package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Storage struct {
		Driver     string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path       string `yaml:"path" env:"STORAGE_PATH"`
		SQLitePath string `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH"`
		KeyPrefix  string `yaml:"key_prefix" env:"STORAGE_KEY_PREFIX"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Auth struct {
		Enabled         bool   `yaml:"enabled" env:"AUTH_ENABLED"`
		PassphraseHash  string `yaml:"passphrase_hash" env:"AUTH_PASSPHRASE_HASH"`
		Secret          string `yaml:"secret" env:"AUTH_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"AUTH_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"AUTH_ISSUER"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Gemini struct {
		APIKey            string `yaml:"api_key" env:"GEMINI_API_KEY"`
		Model             string `yaml:"model" env:"GEMINI_MODEL"`
		VisionModel       string `yaml:"vision_model" env:"GEMINI_VISION_MODEL"`
		MaxRetries        int    `yaml:"max_retries" env:"GEMINI_MAX_RETRIES"`
		RateLimitCooldown string `yaml:"rate_limit_cooldown" env:"GEMINI_RATE_LIMIT_COOLDOWN"`
	} `yaml:"gemini"`

	Weather struct {
		BaseURL   string  `yaml:"base_url" env:"WEATHER_BASE_URL"`
		Latitude  float64 `yaml:"latitude" env:"WEATHER_LATITUDE"`
		Longitude float64 `yaml:"longitude" env:"WEATHER_LONGITUDE"`
		CacheTTL  string  `yaml:"cache_ttl" env:"WEATHER_CACHE_TTL"`
	} `yaml:"weather"`

	Tracker struct {
		ThesisThresholdECTS int      `yaml:"thesis_threshold_ects" env:"TRACKER_THESIS_THRESHOLD_ECTS"`
		TotalRequiredECTS   int      `yaml:"total_required_ects" env:"TRACKER_TOTAL_REQUIRED_ECTS"`
		GroupTarget         int      `yaml:"group_target" env:"TRACKER_GROUP_TARGET"`
		ModuleGroups        []string `yaml:"module_groups" env:"TRACKER_MODULE_GROUPS"`
		SaveIndicatorDelay  string   `yaml:"save_indicator_delay" env:"TRACKER_SAVE_INDICATOR_DELAY"`
	} `yaml:"tracker"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, if present, is loaded first.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine; variables may come from the real environment
	_ = godotenv.Load()

	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration holding only defaults.
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Storage defaults
	config.Storage.Driver = StorageFile
	config.Storage.Path = "data"
	config.Storage.SQLitePath = "data/unitrack.db"
	config.Storage.KeyPrefix = "unitrack:"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "unitrack"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 1
	config.Database.MaxOpenConns = 4
	config.Database.ConnMaxLifetime = "1h"

	// Redis defaults
	config.Redis.Addr = "localhost:6379"

	// Auth defaults
	config.Auth.TokenExpiration = "24h"
	config.Auth.Issuer = "unitrack.local"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "pretty"

	// Gemini defaults
	config.Gemini.Model = "gemini-2.5-flash"
	config.Gemini.VisionModel = "gemini-2.5-flash"
	config.Gemini.MaxRetries = 3
	config.Gemini.RateLimitCooldown = "30s"

	// Weather defaults (Passau)
	config.Weather.BaseURL = "https://api.open-meteo.com"
	config.Weather.Latitude = 48.5665
	config.Weather.Longitude = 13.4312
	config.Weather.CacheTTL = "30m"

	// Tracker defaults
	config.Tracker.ThesisThresholdECTS = 80
	config.Tracker.TotalRequiredECTS = 120
	config.Tracker.GroupTarget = 3
	config.Tracker.ModuleGroups = []string{
		"Economics",
		"Southeast Asian Studies",
		"Sociology and Politics",
		"Sustainability and Resources",
		"Geographies of Development",
	}
	config.Tracker.SaveIndicatorDelay = "500ms"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case StorageFile:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the file driver")
		}
	case StorageSQLite:
		if config.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite driver")
		}
	case StoragePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
	case StorageRedis:
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Auth.Enabled {
		if config.Auth.Secret == "" {
			return fmt.Errorf("auth secret is required when auth is enabled")
		}
		if config.Auth.PassphraseHash == "" {
			return fmt.Errorf("auth passphrase hash is required when auth is enabled")
		}
	}

	durations := map[string]string{
		"auth token expiration":        config.Auth.TokenExpiration,
		"gemini rate limit cooldown":   config.Gemini.RateLimitCooldown,
		"weather cache ttl":            config.Weather.CacheTTL,
		"tracker save indicator delay": config.Tracker.SaveIndicatorDelay,
		"database conn max lifetime":   config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Tracker.ThesisThresholdECTS < 0 || config.Tracker.TotalRequiredECTS < 0 {
		return fmt.Errorf("tracker credit thresholds must not be negative")
	}
	if config.Gemini.MaxRetries < 0 {
		return fmt.Errorf("gemini max retries must not be negative")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsPretty reports whether human-readable console logging was requested.
func (c *Config) IsPretty() bool {
	return strings.EqualFold(c.Logging.Format, "pretty") || strings.EqualFold(c.Logging.Format, "console")
}
