package config

import (
	"os"
	"strconv"
	"time"

	"glycorisk/internal/errors"
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Artifacts  ArtifactConfig
	Session    SessionConfig
	Prediction PredictionConfig
	Log        LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// ArtifactConfig points at the serialized classifier and scaler
type ArtifactConfig struct {
	ModelPath  string
	ScalerPath string
}

// SessionConfig holds per-user session storage settings
type SessionConfig struct {
	Backend       string
	CookieName    string
	TTL           time.Duration
	Secure        bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// PredictionConfig holds inference settings
type PredictionConfig struct {
	CacheSize int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Artifacts:  *loadArtifactConfig(),
		Session:    *loadSessionConfig(),
		Prediction: *loadPredictionConfig(),
		Log:        *loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadArtifactConfig() *ArtifactConfig {
	return &ArtifactConfig{
		ModelPath:  getEnvOrDefault("MODEL_PATH", "artifacts/diabetes_model.json"),
		ScalerPath: getEnvOrDefault("SCALER_PATH", "artifacts/scaler.json"),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		Backend:       getEnvOrDefault("SESSION_BACKEND", SessionBackendMemory),
		CookieName:    getEnvOrDefault("SESSION_COOKIE", "glycorisk_session"),
		TTL:           getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
		Secure:        getEnvBoolOrDefault("SESSION_SECURE", false),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
	}
}

func loadPredictionConfig() *PredictionConfig {
	return &PredictionConfig{
		CacheSize: getEnvIntOrDefault("PREDICTION_CACHE_SIZE", 256),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Artifacts.ModelPath == "" {
		return errors.ConfigInvalid("MODEL_PATH is required")
	}
	if config.Artifacts.ScalerPath == "" {
		return errors.ConfigInvalid("SCALER_PATH is required")
	}
	switch config.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if config.Session.RedisAddr == "" {
			return errors.ConfigInvalid("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return errors.ConfigInvalid("SESSION_BACKEND must be memory or redis, got " + config.Session.Backend)
	}
	if config.Session.CookieName == "" {
		return errors.ConfigInvalid("session cookie name is required")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Prediction.CacheSize < 0 {
		return errors.ConfigInvalid("PREDICTION_CACHE_SIZE must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
