package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"foodgram/internal/pkg/shortcode"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "foodgram.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultImageStore      = "local"
	defaultMediaDir        = "./media"
	defaultMediaURL        = "/media"
	defaultShortCodeCache  = "1024"
	defaultRateLimitRPS    = "20"
	defaultRateLimitBurst  = "40"
	defaultPageSize        = "6"
	defaultShutdownTimeout = "15s"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	PublicBaseURL   string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	ShortCodeLength      int
	ShortCodeAlphabet    string
	ShortCodeMaxAttempts int
	ShortCodeCacheSize   int

	ImageStore string
	MediaDir   string
	MediaURL   string
	S3         S3Config

	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
	DefaultPageSize    int
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL)), "/")
	cfg.LogLevel = getEnv("LOG_LEVEL", defaultLogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", defaultLogFormat)

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	if cfg.ShortCodeLength, err = parseIntEnv("SHORT_CODE_LENGTH", strconv.Itoa(shortcode.DefaultLength)); err != nil {
		return nil, err
	}
	cfg.ShortCodeAlphabet = getEnv("SHORT_CODE_ALPHABET", shortcode.DefaultAlphabet)
	if cfg.ShortCodeMaxAttempts, err = parseIntEnv("SHORT_CODE_MAX_ATTEMPTS", strconv.Itoa(shortcode.DefaultMaxAttempts)); err != nil {
		return nil, err
	}
	if cfg.ShortCodeCacheSize, err = parseIntEnv("SHORT_CODE_CACHE_SIZE", defaultShortCodeCache); err != nil {
		return nil, err
	}

	cfg.ImageStore = strings.ToLower(strings.TrimSpace(getEnv("IMAGE_STORE", defaultImageStore)))
	cfg.MediaDir = getEnv("MEDIA_DIR", defaultMediaDir)
	cfg.MediaURL = getEnv("MEDIA_URL", defaultMediaURL)
	cfg.S3 = S3Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	rps := strings.TrimSpace(getEnv("RATE_LIMIT_RPS", defaultRateLimitRPS))
	if cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS value %q: %w", rps, err)
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if cfg.DefaultPageSize, err = parseIntEnv("DEFAULT_PAGE_SIZE", defaultPageSize); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if _, err := shortcode.New(cfg.ShortCodeLength, cfg.ShortCodeAlphabet, cfg.ShortCodeMaxAttempts); err != nil {
		return fmt.Errorf("short code config: %w", err)
	}
	if cfg.ShortCodeCacheSize <= 0 {
		return fmt.Errorf("SHORT_CODE_CACHE_SIZE must be > 0")
	}
	if cfg.DefaultPageSize < 1 || cfg.DefaultPageSize > 100 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be in 1..100")
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be >= 0")
	}

	switch cfg.ImageStore {
	case "local":
	case "s3":
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("IMAGE_STORE must be one of: local, s3")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
