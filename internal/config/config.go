package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	AWS        AWSConfig
	GenAI      GenAIConfig
	Processing ProcessingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// IsPostgres reports whether URL points at a PostgreSQL server rather than a SQLite file
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	MaxUploadBytes int64
}

// AWSConfig holds AWS/S3 configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
}

// GenAIConfig holds vision model configuration
type GenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ProcessingConfig holds processing service configuration
type ProcessingConfig struct {
	Concurrency int
}

var keys = []string{
	"DATABASE_URL",
	"PORT",
	"ENVIRONMENT",
	"ALLOWED_ORIGINS",
	"UPLOAD_MAX_BYTES",
	"AWS_REGION",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"S3_BUCKET",
	"S3_ENDPOINT",
	"GENAI_API_KEY",
	"GENAI_MODEL",
	"GENAI_BASE_URL",
	"GENAI_TIMEOUT",
	"PROCESSING_CONCURRENCY",
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	// Set defaults
	v.SetDefault("DATABASE_URL", "lumen.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173,http://localhost:3000")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "lumen-images")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("GENAI_API_KEY", "")
	v.SetDefault("GENAI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GENAI_BASE_URL", "")
	v.SetDefault("GENAI_TIMEOUT", "2m")
	v.SetDefault("PROCESSING_CONCURRENCY", 4)

	// Environment variables override .env file values
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev" // Use "dev" to match .env.dev filename
	}

	// Read .env file for the current environment (ignore error if file doesn't exist)
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env.%s: %w", env, err)
		}
	}

	var config Config
	config.Database.URL = v.GetString("DATABASE_URL")
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = env
	config.Server.AllowedOrigins = splitOrigins(v.GetString("ALLOWED_ORIGINS"))
	config.Server.MaxUploadBytes = v.GetInt64("UPLOAD_MAX_BYTES")
	config.AWS.Region = v.GetString("AWS_REGION")
	config.AWS.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	config.AWS.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	config.AWS.S3Bucket = v.GetString("S3_BUCKET")
	config.AWS.S3Endpoint = v.GetString("S3_ENDPOINT")
	config.GenAI.APIKey = v.GetString("GENAI_API_KEY")
	config.GenAI.Model = v.GetString("GENAI_MODEL")
	config.GenAI.BaseURL = v.GetString("GENAI_BASE_URL")
	config.GenAI.Timeout = v.GetDuration("GENAI_TIMEOUT")
	config.Processing.Concurrency = v.GetInt("PROCESSING_CONCURRENCY")

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", config.Server.Env).
		Bool("postgres", config.Database.IsPostgres()).
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Str("genai_model", config.GenAI.Model).
		Msg("Configuration loaded")

	return &config, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.GenAI.Timeout <= 0 {
		return fmt.Errorf("GENAI_TIMEOUT must be a positive duration, got %s", c.GenAI.Timeout)
	}
	if c.Processing.Concurrency <= 0 {
		return fmt.Errorf("PROCESSING_CONCURRENCY must be positive, got %d", c.Processing.Concurrency)
	}
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
