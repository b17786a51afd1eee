package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("SERVER_PORT", cfg.ServerPort)
	require("JWT_SECRET", cfg.JWTSecret)

	switch cfg.DBDriver {
	case "postgres":
		require("DB_HOST", cfg.DBHost)
		require("DB_PORT", cfg.DBPort)
		require("DB_USER", cfg.DBUser)
		require("DB_NAME", cfg.DBName)
		if cfg.Env.RequiresSecrets() {
			require("DB_PASSWORD", cfg.DBPassword)
		}
	case "sqlite":
		require("DB_PATH", cfg.DBPath)
		if cfg.Env == Production {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.RedisURL == "" {
		require("REDIS_HOST", cfg.RedisHost)
	}
	if cfg.Env == Production {
		require("S3_BUCKET_NAME", cfg.S3Bucket)
		if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
			errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters"})
		}
	}
	if cfg.StoreTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "STORE_TIMEOUT", Message: "must be positive"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}
	if cfg.ToolRateLimit < 1 {
		errs = append(errs, ValidationError{Field: "TOOL_RATE_LIMIT", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
