package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration
type Config struct {
	Port          string `yaml:"port"`
	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`
	RedisAddr     string `yaml:"redisUri"`

	// ModelArtifact is a file path or s3://bucket/key
	ModelArtifact string `yaml:"modelArtifact"`
	AWSRegion     string `yaml:"awsRegion"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	CORS CORSConfig `yaml:"cors"`
	Auth AuthConfig `yaml:"auth"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CORSConfig drives the CORS middleware
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowedOrigins"`
	AllowedMethods string `yaml:"allowedMethods"`
	AllowedHeaders string `yaml:"allowedHeaders"`
}

// AuthConfig holds the admin credentials and token settings
type AuthConfig struct {
	AdminUsername string        `yaml:"adminUsername"`
	AdminPassword string        `yaml:"-"` // env only
	JWTSecret     string        `yaml:"-"` // env only
	TokenTTL      time.Duration `yaml:"tokenTtl"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:          "8080",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "mental_health_app",
		RedisAddr:     "localhost:6379",
		ModelArtifact: "models/depression_model.json",
		LogLevel:      "info",
		LogFormat:     "text",
		CORS: CORSConfig{
			AllowedOrigins: "http://localhost:3000",
			AllowedMethods: "GET, POST, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
		Auth: AuthConfig{
			AdminUsername: "admin",
			TokenTTL:      24 * time.Hour,
		},
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load builds the config from defaults, the YAML file named by CONFIG_FILE,
// then environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimPrefix(cfg.RedisAddr, "redis://")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.MongoURI = getEnvOrDefault("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", c.MongoDatabase)
	c.RedisAddr = getEnvOrDefault("REDIS_URI", c.RedisAddr)
	c.ModelArtifact = getEnvOrDefault("MODEL_ARTIFACT", c.ModelArtifact)
	c.AWSRegion = getEnvOrDefault("AWS_REGION", c.AWSRegion)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	c.CORS.AllowedOrigins = getEnvOrDefault("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnvOrDefault("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnvOrDefault("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)

	c.Auth.AdminUsername = getEnvOrDefault("ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminPassword = getEnvOrDefault("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", c.Auth.JWTSecret)

	var err error
	if c.Auth.TokenTTL, err = getDurationOrDefault("TOKEN_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = getDurationOrDefault("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// AdminEnabled reports whether admin login can succeed.
func (c *Config) AdminEnabled() bool {
	return c.Auth.AdminPassword != "" && c.Auth.JWTSecret != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
