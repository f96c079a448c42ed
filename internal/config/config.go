package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "config/secretsource.yaml"
	localEnvFile      = "config/local.env"
)

// Config holds all application configuration
type Config struct {
	// Env is development, test or production. Development reloads the
	// catalog on every request.
	Env string `yaml:"env"`

	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Database   DatabaseConfig   `yaml:"database"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
	Spotify    SpotifyConfig    `yaml:"spotify"`
	GenAI      GenAIConfig      `yaml:"genai"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig locates the CSV datasets
type DataConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// DatabaseConfig holds the optional community submissions database.
// An empty URL disables the SQL dataset.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`   // optional rotated log file
}

// SpotifyConfig holds client credentials for link lookups
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// GenAIConfig holds the generative text service settings
type GenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// EnrichmentConfig bounds the collaborator calls made for a random artist
type EnrichmentConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RateLimits overrides the outbound requests per second of a provider
	// (spotify, genai).
	RateLimits map[string]float64 `yaml:"rate_limits"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env:    "development",
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Data:   DataConfig{Dir: "data"},
		CORS: CORSConfig{AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:9002",
		}},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		GenAI: GenAIConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		},
		Enrichment: EnrichmentConfig{Timeout: 8 * time.Second},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, config/local.env and finally the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(localEnvFile)

	cfg := Default()

	if err := cfg.loadFile(getEnvOrDefault("CONFIG_FILE", defaultConfigFile)); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Env = strings.ToLower(getEnvOrDefault("APP_ENV", c.Env))

	c.Server.Host = getEnvOrDefault("HOST", c.Server.Host)
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = port
	}

	c.Data.Dir = getEnvOrDefault("DATA_DIR", c.Data.Dir)
	if watch := os.Getenv("WATCH_DATASETS"); watch != "" {
		enabled, err := strconv.ParseBool(watch)
		if err != nil {
			return fmt.Errorf("invalid WATCH_DATASETS: %w", err)
		}
		c.Data.Watch = enabled
	}

	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)

	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		c.CORS.AllowedOrigins = parseAllowedOrigins(originsEnv)
	}

	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", c.Logging.Level))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", c.Logging.Format))
	c.Logging.File = getEnvOrDefault("LOG_FILE", c.Logging.File)

	c.Spotify.ClientID = getEnvOrDefault("SPOTIFY_CLIENT_ID", c.Spotify.ClientID)
	c.Spotify.ClientSecret = getEnvOrDefault("SPOTIFY_CLIENT_SECRET", c.Spotify.ClientSecret)

	c.GenAI.APIKey = getEnvOrDefault("GENAI_API_KEY", c.GenAI.APIKey)
	c.GenAI.Model = getEnvOrDefault("GENAI_MODEL", c.GenAI.Model)
	c.GenAI.BaseURL = getEnvOrDefault("GENAI_BASE_URL", c.GenAI.BaseURL)

	if timeout := os.Getenv("ENRICH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid ENRICH_TIMEOUT: %w", err)
		}
		c.Enrichment.Timeout = d
	}

	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	validEnvs := map[string]bool{"development": true, "test": true, "production": true}
	if !validEnvs[c.Env] {
		errors = append(errors, "APP_ENV must be one of: development, test, production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	if strings.TrimSpace(c.Data.Dir) == "" {
		errors = append(errors, "DATA_DIR is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		errors = append(errors, "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}

	if c.GenAI.APIKey != "" && (c.GenAI.Model == "" || c.GenAI.BaseURL == "") {
		errors = append(errors, "GENAI_MODEL and GENAI_BASE_URL are required when GENAI_API_KEY is set")
	}

	if c.Enrichment.Timeout <= 0 {
		errors = append(errors, "ENRICH_TIMEOUT must be positive")
	}

	for provider, rps := range c.Enrichment.RateLimits {
		if rps <= 0 {
			errors = append(errors, fmt.Sprintf("enrichment.rate_limits.%s must be positive", provider))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
