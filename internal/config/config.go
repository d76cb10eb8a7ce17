package config

import (
	"os"
	"strconv"

	"statbook/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Sim    SimConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// EngineConfig holds defaults for the numerical engine surface
type EngineConfig struct {
	// DefaultSeed is used when a request omits an explicit seed.
	DefaultSeed int64
	// BootstrapBatch is the replicate count added per bootstrap request.
	BootstrapBatch int
	// MaxSampleSize caps generated sample sizes; teaching scenarios never
	// ask for more than a few hundred observations.
	MaxSampleSize int
}

// SimConfig bounds simulation work so the server stays responsive
type SimConfig struct {
	// MaxConcurrent is the semaphore weight shared by simulation routes.
	MaxConcurrent int64
	// MaxTrials caps trials per simulated-sequence request.
	MaxTrials int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Engine: EngineConfig{
			DefaultSeed:    getEnvInt64OrDefault("DEFAULT_SEED", 42),
			BootstrapBatch: getEnvIntOrDefault("BOOTSTRAP_BATCH_SIZE", 50),
			MaxSampleSize:  getEnvIntOrDefault("MAX_SAMPLE_SIZE", 1000),
		},
		Sim: SimConfig{
			MaxConcurrent: int64(getEnvIntOrDefault("SIM_MAX_CONCURRENT", 4)),
			MaxTrials:     getEnvIntOrDefault("SIM_MAX_TRIALS", 20000),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if config.Engine.BootstrapBatch <= 0 {
		return errors.ConfigInvalid("BOOTSTRAP_BATCH_SIZE must be positive")
	}
	if config.Engine.MaxSampleSize <= 0 {
		return errors.ConfigInvalid("MAX_SAMPLE_SIZE must be positive")
	}
	if config.Sim.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("SIM_MAX_CONCURRENT must be positive")
	}
	if config.Sim.MaxTrials <= 0 {
		return errors.ConfigInvalid("SIM_MAX_TRIALS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
