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
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Addr              string
	Environment       string
	LogLevel          string
	StoreDriver       string
	DatabaseURL       string
	DBSecretID        string
	SQLitePath        string
	JWTSecret         string
	TokenTTL          time.Duration
	RatesFile         string
	TransitionTimeout time.Duration
	ReceiptDir        string
	ReceiptBucket     string
	CORSOrigins       []string
	MaxBodyBytes      int64
	RunMigrations     bool
	RunSeed           bool
	SeedEmployerEmail string
	SeedWorkerEmail   string
	SeedPassword      string
	ReminderInterval  time.Duration
	MetricsEnabled    bool
}

// Load reads an optional .env file and then the process environment. Values
// already set in the environment win over the file.
func Load() Config {
	if path := getEnv("ENV_FILE", ".env"); path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("env file not loaded", "path", path, "err", err)
		}
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBSecretID:        getEnv("DB_SECRET_ID", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "laborpay.db"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),
		RatesFile:         getEnv("RATES_FILE", ""),
		TransitionTimeout: getEnvDuration("TRANSITION_TIMEOUT", 10*time.Second),
		ReceiptDir:        getEnv("RECEIPT_DIR", "receipts"),
		ReceiptBucket:     getEnv("RECEIPT_BUCKET", ""),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:           getEnvBool("RUN_SEED", false),
		SeedEmployerEmail: getEnv("SEED_EMPLOYER_EMAIL", ""),
		SeedWorkerEmail:   getEnv("SEED_WORKER_EMAIL", ""),
		SeedPassword:      getEnv("SEED_PASSWORD", ""),
		ReminderInterval:  getEnvDuration("REMINDER_INTERVAL", 24*time.Hour),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SlogLevel maps LOG_LEVEL onto slog; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.TransitionTimeout <= 0 {
		return fmt.Errorf("TRANSITION_TIMEOUT must be positive")
	}
	if c.RunSeed && (c.SeedEmployerEmail == "" || c.SeedPassword == "") {
		return fmt.Errorf("SEED_EMPLOYER_EMAIL and SEED_PASSWORD must be set when RUN_SEED is true")
	}
	return nil
}
