package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingAPIKey          = errors.New("SERPER_API_KEY is required")
	ErrMissingDB              = errors.New("DATABASE_URL is required for postgres storage")
	ErrMissingREST            = errors.New("REST_URL and REST_API_KEY are required for rest storage")
	ErrInvalidStorageBackend  = errors.New("invalid storage backend")
	ErrInvalidStorageMode     = errors.New("invalid storage mode")
	ErrInvalidSearchResultCap = errors.New("SERPER_RESULT_CAP must be positive")
)

const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendREST     = "rest"
)

type Config struct {
	HTTP      HTTPConfig
	Serper    SerperConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig
	REST      RESTConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type SerperConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	ResultCap int
}

type StorageConfig struct {
	Backend string
	Mode    string
}

type DatabaseConfig struct {
	URL string
}

type SQLiteConfig struct {
	Path string
}

type RESTConfig struct {
	URL     string
	APIKey  string
	Table   string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
			CORSOrigins:     splitCSV(getEnvOrDefault("CORS_ORIGINS", "*")),
			ShutdownTimeout: time.Duration(getEnvIntOrDefault("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		Serper: SerperConfig{
			APIKey:    os.Getenv("SERPER_API_KEY"),
			BaseURL:   getEnvOrDefault("SERPER_BASE_URL", "https://google.serper.dev"),
			Timeout:   time.Duration(getEnvIntOrDefault("SERPER_TIMEOUT_SEC", 30)) * time.Second,
			ResultCap: getEnvIntOrDefault("SERPER_RESULT_CAP", 10),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", BackendNone)),
			Mode:    strings.ToLower(getEnvOrDefault("STORAGE_MODE", "deferred")),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		SQLite: SQLiteConfig{
			Path: getEnvOrDefault("SQLITE_PATH", "news_digest.db"),
		},
		REST: RESTConfig{
			URL:     os.Getenv("REST_URL"),
			APIKey:  os.Getenv("REST_API_KEY"),
			Table:   getEnvOrDefault("REST_TABLE", "search_history"),
			Timeout: time.Duration(getEnvIntOrDefault("REST_TIMEOUT_SEC", 10)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Serper.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Serper.ResultCap <= 0 {
		return ErrInvalidSearchResultCap
	}

	switch c.Storage.Backend {
	case BackendNone, BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Database.URL == "" {
			return ErrMissingDB
		}
	case BackendREST:
		if c.REST.URL == "" || c.REST.APIKey == "" {
			return ErrMissingREST
		}
	default:
		return ErrInvalidStorageBackend
	}

	switch c.Storage.Mode {
	case "off", "deferred", "sync":
	default:
		return ErrInvalidStorageMode
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
