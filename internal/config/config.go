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
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Mail     MailConfig
	Storage  StorageConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatabaseConfig holds DB connection values. When InstanceConnectionName is
// set the pool connects over the Cloud SQL unix socket instead of TCP.
type DatabaseConfig struct {
	Host                   string
	Port                   string
	User                   string
	Password               string
	Database               string
	InstanceConnectionName string
	MaxConns               int32
	MinConns               int32
	RunMigrations          bool
	ConnMaxIdleSec         int32
	ConnMaxLifeSec         int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the administrative principal and token parameters.
type AuthConfig struct {
	AdminID       string
	AdminPassword string
	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int
}

// MailConfig holds SMTP transport credentials. An empty Username disables the
// sender entirely.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	AdminNotify string
}

// StorageConfig selects the attachment backend: a non-empty BucketName picks
// Google Cloud Storage, otherwise attachments go to UploadDir on local disk.
type StorageConfig struct {
	BucketName string
	UploadDir  string
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
			Name:                  getEnv("APP_NAME", "support-center"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Database: DatabaseConfig{
			Host:                   getEnv("DB_HOST", "127.0.0.1"),
			Port:                   getEnv("DB_PORT", "5432"),
			User:                   os.Getenv("DB_USER"),
			Password:               os.Getenv("DB_PASSWORD"),
			Database:               os.Getenv("DB_DATABASE"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
			MaxConns:               int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:               int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:          getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:         int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:         int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AdminID:       getEnv("ADMIN_ID", "comtooin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
			TokenTTLHours: getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 8),
			BcryptCost:    getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Mail: MailConfig{
			Host:        getEnv("SMTP_HOST", "smtp.naver.com"),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    os.Getenv("EMAIL_USER"),
			Password:    os.Getenv("EMAIL_PASS"),
			FromName:    getEnv("EMAIL_FROM_NAME", "Comtooin Support"),
			AdminNotify: os.Getenv("ADMIN_NOTIFY_EMAIL"),
		},
		Storage: StorageConfig{
			BucketName: os.Getenv("GCS_BUCKET_NAME"),
			UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		},
	}

	if cfg.Auth.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
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

// TokenTTL returns the administrative credential lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Enabled reports whether the mail transport is configured.
func (m MailConfig) Enabled() bool {
	return m.Username != "" && m.Password != ""
}

// UseCloud reports whether attachments go to the cloud bucket.
func (s StorageConfig) UseCloud() bool {
	return s.BucketName != ""
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
