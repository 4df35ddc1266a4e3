package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName         string
	HTTPPort            string
	PostgresDSN         string
	PostgresPingTimeout time.Duration

	BcryptCost         int
	MintMaxAttempts    int
	ReconcilerInterval time.Duration
	ReconcilerBatch    int

	EnableAccessReconciler bool
	EnableSwagger          bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "carbono"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName:         service,
		HTTPPort:            port,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		PostgresPingTimeout: envDuration("POSTGRES_PING_TIMEOUT", 5*time.Second),

		BcryptCost:         envInt("BCRYPT_COST", 10),
		MintMaxAttempts:    envInt("MINT_MAX_ATTEMPTS", 8),
		ReconcilerInterval: envDuration("ACCESS_RECONCILER_INTERVAL", time.Minute),
		ReconcilerBatch:    envInt("ACCESS_RECONCILER_BATCH", 100),

		EnableAccessReconciler: envBool("ENABLE_ACCESS_RECONCILER", true),
		EnableSwagger:          envBool("ENABLE_SWAGGER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
