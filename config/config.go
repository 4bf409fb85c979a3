package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Config carries everything the collector needs, loaded once at startup and
// passed into the components explicitly.
type Config struct {
	OpenWeatherAPIKey string
	BucketName        string
	Region            string
	S3Endpoint        string

	Cities    []string
	KeyPrefix string

	Format             string
	ParquetCompression string

	// FetchRetries is the number of extra fetch attempts per city (0 = none).
	FetchRetries int
	HTTPTimeout  time.Duration

	AppEnv   string
	LogLevel slog.Level
}

// Load reads configuration from the environment, honoring a .env file in the
// working directory when present. Missing credentials are an error; callers
// treat that as fatal before any city is processed.
func Load() (*Config, error) {
	// Best effort; absent .env files are the normal case outside dev.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.OpenWeatherAPIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.BucketName = strings.TrimSpace(os.Getenv("AWS_BUCKET_NAME"))
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("AWS_BUCKET_NAME is required")
	}

	cfg.Region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS_REGION is required")
	}

	cfg.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT_URL"))

	cfg.Cities = splitCities(getenvDefault("CITIES", "Philadelphia,Seattle,New York"))
	if len(cfg.Cities) == 0 {
		return nil, fmt.Errorf("CITIES must name at least one city")
	}

	cfg.KeyPrefix = getenvDefault("S3_KEY_PREFIX", "weather-data")

	cfg.Format = strings.ToLower(getenvDefault("RECORD_FORMAT", FormatJSON))
	switch cfg.Format {
	case FormatJSON, FormatParquet:
	default:
		return nil, fmt.Errorf("invalid RECORD_FORMAT %q (allowed: json, parquet)", cfg.Format)
	}
	cfg.ParquetCompression = strings.TrimSpace(os.Getenv("PARQUET_COMPRESSION"))

	retriesStr := getenvDefault("FETCH_RETRIES", "0")
	retries, err := strconv.Atoi(retriesStr)
	if err != nil || retries < 0 {
		return nil, fmt.Errorf("invalid FETCH_RETRIES %q", retriesStr)
	}
	cfg.FetchRetries = retries

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", timeoutStr, err)
	}
	cfg.HTTPTimeout = timeout

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func splitCities(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
