package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration. DBDriver is postgres or sqlite; DBPath is the
	// sqlite file.
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DBPath       string
	StoreTimeout time.Duration

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Blob storage configuration
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string

	// Search tool rate limit, requests per window per user
	ToolRateLimit  int
	ToolRateWindow time.Duration
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// URL returns the postgres connection string in URL form
func (c *Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var src source
	switch env {
	case CI:
		// CI uses environment variables only
		src = envSource{}
	case Development, Test:
		// .env is optional
		_ = godotenv.Load()
		src = layeredSource{envSource{}, secretSource{}}
	case Production:
		src = layeredSource{secretSource{}, envSource{}}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg, err := load(env, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(env Environment, src source) (*Config, error) {
	d := defaultsFor(env)
	get := func(key string) string {
		if v := src.lookup(key); v != "" {
			return v
		}
		return d[key]
	}

	cfg := &Config{
		Env:             env,
		ServerPort:      get("SERVER_PORT"),
		ServerHost:      get("SERVER_HOST"),
		CORSOrigins:     splitCSV(get("CORS_ORIGINS")),
		DBDriver:        strings.ToLower(get("DB_DRIVER")),
		DBHost:          get("DB_HOST"),
		DBPort:          get("DB_PORT"),
		DBUser:          get("DB_USER"),
		DBPassword:      get("DB_PASSWORD"),
		DBName:          get("DB_NAME"),
		DBSSLMode:       get("DB_SSL_MODE"),
		DBPath:          get("DB_PATH"),
		RedisHost:       get("REDIS_HOST"),
		RedisPort:       get("REDIS_PORT"),
		RedisPassword:   get("REDIS_PASSWORD"),
		RedisURL:        get("REDIS_URL"),
		JWTSecret:       get("JWT_SECRET"),
		S3Bucket:        get("S3_BUCKET_NAME"),
		S3Region:        get("AWS_REGION"),
		S3Endpoint:      get("S3_ENDPOINT"),
		S3PublicBaseURL: get("S3_PUBLIC_BASE_URL"),
	}

	var err error
	if cfg.RedisDB, err = atoi("REDIS_DB", get("REDIS_DB")); err != nil {
		return nil, err
	}
	if cfg.ToolRateLimit, err = atoi("TOOL_RATE_LIMIT", get("TOOL_RATE_LIMIT")); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = duration("STORE_TIMEOUT", get("STORE_TIMEOUT")); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = duration("JWT_TTL", get("JWT_TTL")); err != nil {
		return nil, err
	}
	if cfg.ToolRateWindow, err = duration("TOOL_RATE_WINDOW", get("TOOL_RATE_WINDOW")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultsFor returns fallback values. Secrets never have a production
// default.
func defaultsFor(env Environment) map[string]string {
	d := map[string]string{
		"SERVER_PORT":      "8080",
		"SERVER_HOST":      "0.0.0.0",
		"DB_DRIVER":        "postgres",
		"DB_PORT":          "5432",
		"DB_SSL_MODE":      "disable",
		"REDIS_PORT":       "6379",
		"REDIS_DB":         "0",
		"STORE_TIMEOUT":    "5s",
		"JWT_TTL":          "24h",
		"TOOL_RATE_LIMIT":  "30",
		"TOOL_RATE_WINDOW": "1m",
		"AWS_REGION":       "us-east-1",
	}
	switch env {
	case Development:
		d["DB_HOST"] = "localhost"
		d["DB_USER"] = "postgres"
		d["DB_PASSWORD"] = "postgres"
		d["DB_NAME"] = "bitebot"
		d["REDIS_HOST"] = "localhost"
		d["JWT_SECRET"] = "development-secret"
		d["S3_BUCKET_NAME"] = "bitebot-media"
		d["CORS_ORIGINS"] = "http://localhost:3000,http://localhost:5173"
	case Test:
		d["DB_DRIVER"] = "sqlite"
		d["DB_PATH"] = "file::memory:?cache=shared"
		d["REDIS_HOST"] = "localhost"
		d["JWT_SECRET"] = "test-secret"
		d["S3_BUCKET_NAME"] = "bitebot-test"
		d["CORS_ORIGINS"] = "http://localhost:3000"
	}
	return d
}

// source looks up a configuration key such as DB_HOST
type source interface {
	lookup(key string) string
}

type envSource struct{}

func (envSource) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// secretSource reads docker secrets named after the lower-cased key
type secretSource struct{}

func (secretSource) lookup(key string) string {
	return readSecret(strings.ToLower(key))
}

// layeredSource returns the first non-empty value
type layeredSource []source

func (l layeredSource) lookup(key string) string {
	for _, s := range l {
		if v := s.lookup(key); v != "" {
			return v
		}
	}
	return ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(key, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func duration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
