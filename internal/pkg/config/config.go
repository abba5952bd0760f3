package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// ProvidersConfig holds base URLs and credentials for the external
// services the planning pipeline talks to. Base URLs are configurable
// so tests can point them at local fakes.
type ProvidersConfig struct {
	OpenTripMapBaseURL string
	OpenTripMapKey     string
	NominatimBaseURL   string
	PexelsBaseURL      string
	PexelsKey          string
	GeminiAPIKey       string
	GeminiModel        string
	RequestTimeout     time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Config struct {
	Repositories RepositoriesConfig
	Providers    ProvidersConfig
	Auth         AuthConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tripflow"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Providers: ProvidersConfig{
			OpenTripMapBaseURL: getEnvOrDefault("OPENTRIPMAP_BASE_URL", "https://api.opentripmap.com/0.1/en"),
			OpenTripMapKey:     os.Getenv("OPENTRIPMAP_KEY"),
			NominatimBaseURL:   getEnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			PexelsBaseURL:      getEnvOrDefault("PEXELS_BASE_URL", "https://api.pexels.com/v1"),
			PexelsKey:          os.Getenv("PEXELS_API_KEY"),
			GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
			GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			RequestTimeout:     getDurationOrDefault("PROVIDER_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET_KEY"),
			TokenTTL:  getDurationOrDefault("JWT_TOKEN_TTL", 7*24*time.Hour),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	if cfg.Providers.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
