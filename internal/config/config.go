package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	ClickHouse   ClickHouseConfig
	SMTP         SMTPConfig
	Session      SessionConfig
	Upload       UploadConfig
	Verification VerificationConfig
	Logger       LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BaseURL               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig holds analytics store connection values.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Secure   bool
}

// SMTPConfig holds outbound mail transport values.
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	TimeoutSeconds int
}

// SessionConfig controls the per-visitor session store.
type SessionConfig struct {
	CookieName string
	TTLMinutes int
	Secure     bool
}

// UploadConfig controls avatar and game image storage.
type UploadConfig struct {
	Driver      string // "local" or "s3"
	MediaDir    string
	MediaURL    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// VerificationConfig controls email verification codes.
type VerificationConfig struct {
	TTLMinutes int
	BcryptCost int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "puzzle-accounts"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8001"),
			Version:               getEnv("APP_VERSION", "dev"),
			BaseURL:               getEnv("APP_BASE_URL", "http://127.0.0.1:8001"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		ClickHouse: ClickHouseConfig{
			Addr:     getEnv("CLICKHOUSE_ADDR", "127.0.0.1:9000"),
			Database: getEnv("CLICKHOUSE_DATABASE", "default"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
			Secure:   getEnvAsBool("CLICKHOUSE_SECURE", false),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", "smtp.yandex.ru"),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			From:           getEnv("SMTP_FROM", "noreply@puzz.example"),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "puzzle_sid"),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 1440),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Upload: UploadConfig{
			Driver:      getEnv("UPLOAD_DRIVER", "local"),
			MediaDir:    getEnv("UPLOAD_MEDIA_DIR", "media"),
			MediaURL:    getEnv("UPLOAD_MEDIA_URL", "/media"),
			S3Bucket:    os.Getenv("UPLOAD_S3_BUCKET"),
			S3Region:    getEnv("UPLOAD_S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("UPLOAD_S3_ENDPOINT"),
			S3AccessKey: os.Getenv("UPLOAD_S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("UPLOAD_S3_SECRET_KEY"),
			S3PublicURL: os.Getenv("UPLOAD_S3_PUBLIC_URL"),
		},
		Verification: VerificationConfig{
			TTLMinutes: getEnvAsInt("VERIFICATION_TTL_MINUTES", 15),
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// TTL returns the verification code lifetime.
func (v VerificationConfig) TTL() time.Duration {
	return time.Duration(v.TTLMinutes) * time.Minute
}

// Timeout returns the SMTP dial-and-send timeout.
func (s SMTPConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
