package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/user/movieshelf/internal/apperr"
)

// Config 应用配置
type Config struct {
	Env         string
	Port        string
	Storage     string
	DatabaseURL string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	OMDbAPIKey  string
	OMDbBaseURL string
	OMDbTimeout time.Duration
	OMDbRetries int

	CleanupInterval time.Duration
	MaxPageSize     int

	LogLevel  string
	LogFormat string
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movieshelf")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	env := getEnv("APP_ENV", "development")
	logFormat := "text"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Env:             env,
		Port:            getEnv("PORT", "5005"),
		Storage:         getEnv("STORAGE", "postgres"),
		DatabaseURL:     getEnv("DATABASE_URL", dbURL),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnv("JWT_ISSUER", "movieshelf"),
		JWTAudience:     getEnv("JWT_AUDIENCE", "movieshelf-api"),
		OMDbAPIKey:      os.Getenv("OMDB_API_KEY"),
		OMDbBaseURL:     getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		OMDbTimeout:     getDuration("OMDB_TIMEOUT", 10*time.Second),
		OMDbRetries:     getInt("OMDB_RETRIES", 2),
		CleanupInterval: getDuration("CLEANUP_INTERVAL", 5*time.Minute),
		MaxPageSize:     getInt("FAVORITES_MAX_PAGE_SIZE", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", logFormat),
	}
}

// Validate 校验启动必需的配置项，缺失签名密钥等属于致命错误
func (c *Config) Validate() error {
	if c.JWTSecret == "" || c.JWTIssuer == "" || c.JWTAudience == "" {
		return apperr.Configuration("JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE must be set")
	}
	if c.Storage != "postgres" && c.Storage != "memory" {
		return apperr.Configuration("unsupported STORAGE %q", c.Storage)
	}
	if c.MaxPageSize < 1 {
		return apperr.Configuration("FAVORITES_MAX_PAGE_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
