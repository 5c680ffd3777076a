package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	JWTSecret             string
	SessionExpiry         time.Duration // Token lifetime when "remember me" is off (browser-session cookie)
	SessionRememberExpiry time.Duration // Token and cookie lifetime when "remember me" is on

	// Requests
	RequestTimeout time.Duration
	MaxUploadSize  int64
	TimeZone       string // IANA zone defining "today" for daily reports and naive datetimes

	// Case intake
	CaseCreateLimit int // Per-user cases per 24h, 0 disables the limit

	// Rate limiting store (optional, falls back to in-memory)
	RedisAddress  string
	RedisPassword string

	// Observability (optional)
	SentryDSN string

	// Storage
	StorageDriver    string // "local" or "s3"
	StorageLocalPath string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Expiry for presigned case image URLs
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "casetrack"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8000"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/casetrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Sessions
		JWTSecret:             envRequired("JWT_SECRET"),
		SessionExpiry:         envDuration("SESSION_EXPIRY", 12*time.Hour),
		SessionRememberExpiry: envDuration("SESSION_REMEMBER_EXPIRY", 14*24*time.Hour), // 14 days

		// Requests
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxUploadSize:  int64(envInt("MAX_UPLOAD_SIZE", 32<<20)), // 32MB per request
		TimeZone:       envString("TIME_ZONE", "UTC"),

		// Case intake
		CaseCreateLimit: envInt("CASE_CREATE_LIMIT", 0),

		// Rate limiting
		RedisAddress:  envString("REDIS_ADDRESS", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver:    envString("STORAGE_DRIVER", StorageDriverLocal),
		StorageLocalPath: envString("STORAGE_LOCAL_PATH", "./data/media"),

		// Storage (S3-compatible - only read when STORAGE_DRIVER=s3)
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),                  // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour), // Default: 1 hour for case images
	}

	if cfg.StorageDriver == StorageDriverS3 {
		validateS3(cfg)
	}

	return cfg
}

// validateS3 ensures the bucket settings are present when S3 storage is selected.
func validateS3(cfg *Config) {
	if cfg.S3Region == "" || cfg.S3Bucket == "" {
		slog.Error("s3 storage requires S3_REGION and S3_BUCKET",
			"hint", "set STORAGE_DRIVER=local to store case images on disk")
		os.Exit(1)
	}
}

// LoadDatabase reads only the database settings, for tools that never serve HTTP.
func LoadDatabase() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:       envString("APP_ENV", "development"),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/casetrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location resolves TimeZone, falling back to UTC for unknown zone names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("config invalid time zone, using UTC", "time_zone", c.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and connection strings are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:         c.AppName,
		AppEnv:          c.AppEnv,
		Port:            c.Port,
		DBDriver:        c.DBDriver,
		RequestTimeout:  c.RequestTimeout,
		MaxUploadSize:   c.MaxUploadSize,
		TimeZone:        c.TimeZone,
		CaseCreateLimit: c.CaseCreateLimit,
		StorageDriver:   c.StorageDriver,
		S3Bucket:        c.S3Bucket,
		S3Endpoint:      c.S3Endpoint,
	}
}
