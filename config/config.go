// Package config loads server settings from .env, an optional YAML file and
// the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'json' or 'console'")
	ErrInvalidMode           = errors.New("server.mode must be one of: debug, release, test")
	ErrMissingDatabase       = errors.New("database.dsn or database.host is required")
	ErrMissingJWTSecret      = errors.New("jwt.secret is required")
	ErrInvalidJWTExpiration  = errors.New("jwt.expiration_hours must be at least 1")
	ErrInvalidMaxDepth       = errors.New("content.max_depth must be between 1 and 64")
	ErrInvalidWordsPerMinute = errors.New("content.words_per_minute must be at least 1")
	ErrMissingUploadDir      = errors.New("uploads.dir is required")
	ErrNoUploadExtensions    = errors.New("uploads.allowed_extensions must not be empty")
	ErrInvalidUploadSize     = errors.New("uploads.max_size_mb must be at least 1")
	ErrInvalidQueueSize      = errors.New("analytics.queue_size must be at least 1")
)

const maxNestingDepth = 64

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Uploads   UploadConfig    `yaml:"uploads"`
	Content   ContentConfig   `yaml:"content"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Mode           string   `yaml:"mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
}

// ConnString returns the DSN if set, otherwise one built from the parts.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

type UploadConfig struct {
	Dir               string   `yaml:"dir"`
	BaseURL           string   `yaml:"base_url"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxSizeMB         int64    `yaml:"max_size_mb"`
}

func (u UploadConfig) MaxBytes() int64 {
	return u.MaxSizeMB << 20
}

// ContentConfig tunes block decoding and read time estimates.
type ContentConfig struct {
	MaxDepth       int `yaml:"max_depth"`
	WordsPerMinute int `yaml:"words_per_minute"`
}

type AnalyticsConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Mode:           "debug",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Name:     "vectormag",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		JWT: JWTConfig{
			Secret:          "your-secret-key-change-this-in-production",
			ExpirationHours: 24,
		},
		Uploads: UploadConfig{
			Dir:               "./uploads",
			BaseURL:           "/uploads",
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
			MaxSizeMB:         5,
		},
		Content: ContentConfig{
			MaxDepth:       8,
			WordsPerMinute: 200,
		},
		Analytics: AnalyticsConfig{QueueSize: 1024},
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE (if any), then
// environment overrides, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	var err error
	num := func(key string, dst *int) {
		v := getenv(key)
		if v == "" || err != nil {
			return
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			err = fmt.Errorf("%s: %w", key, convErr)
			return
		}
		*dst = n
	}

	str("PORT", &c.Server.Port)
	str("GIN_MODE", &c.Server.Mode)
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_PATH", &c.Logging.Path)

	str("DATABASE_URL", &c.Database.DSN)
	str("DB_HOST", &c.Database.Host)
	str("DB_PORT", &c.Database.Port)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("DB_SSLMODE", &c.Database.SSLMode)

	str("JWT_SECRET", &c.JWT.Secret)
	num("JWT_EXPIRATION_HOURS", &c.JWT.ExpirationHours)

	str("UPLOAD_DIR", &c.Uploads.Dir)
	str("UPLOAD_BASE_URL", &c.Uploads.BaseURL)
	if v := getenv("UPLOAD_ALLOWED_EXTENSIONS"); v != "" {
		c.Uploads.AllowedExtensions = splitList(v)
	}
	var sizeMB int
	num("UPLOAD_MAX_SIZE_MB", &sizeMB)
	if sizeMB != 0 {
		c.Uploads.MaxSizeMB = int64(sizeMB)
	}

	num("CONTENT_MAX_DEPTH", &c.Content.MaxDepth)
	num("WORDS_PER_MINUTE", &c.Content.WordsPerMinute)
	num("ANALYTICS_QUEUE_SIZE", &c.Analytics.QueueSize)
	return err
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return ErrInvalidMode
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return ErrInvalidLogFormat
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return ErrMissingDatabase
	}

	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.ExpirationHours < 1 {
		return ErrInvalidJWTExpiration
	}

	if c.Uploads.Dir == "" {
		return ErrMissingUploadDir
	}
	if len(c.Uploads.AllowedExtensions) == 0 {
		return ErrNoUploadExtensions
	}
	if c.Uploads.MaxSizeMB < 1 {
		return ErrInvalidUploadSize
	}

	if c.Content.MaxDepth < 1 || c.Content.MaxDepth > maxNestingDepth {
		return ErrInvalidMaxDepth
	}
	if c.Content.WordsPerMinute < 1 {
		return ErrInvalidWordsPerMinute
	}

	if c.Analytics.QueueSize < 1 {
		return ErrInvalidQueueSize
	}
	return nil
}
