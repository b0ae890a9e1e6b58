package config

import (
	"errors"
	"fmt"
)

// ValidateConfig ensures required settings are present before startup.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.DBName == "" {
		return errors.New("DB_NAME is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			return errors.New("DB_PASSWORD is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			return fmt.Errorf("DB_SSL_MODE %q is not allowed in production", cfg.DBSSLMode)
		}
	}
	return nil
}
