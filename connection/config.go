package connection

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	StoreDriver string
	DBHost      string
	DBPort      string
	DBName      string
	DBUser      string
	DBPassword  string
	DBSSLMode   string
	SQLitePath  string

	FirebaseCredentials string
	FirebaseProjectID   string

	JWTSecret        string
	SessionCookie    string
	SessionTTL       time.Duration
	CookieSecure     bool
	CORSOrigins      []string
	StatementTimeout time.Duration
}

const (
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using OS environment variables")
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:                get("PORT", "8080"),
		GinMode:             get("GIN_MODE", "release"),
		StoreDriver:         strings.ToLower(get("STORE_DRIVER", DriverPostgres)),
		DBHost:              get("DB_HOST", "localhost"),
		DBPort:              get("DB_PORT", ""),
		DBName:              get("DB_NAME", "tasktracker"),
		DBUser:              get("DB_USER", "postgres"),
		DBPassword:          getenv("DB_PASSWORD"),
		DBSSLMode:           get("DB_SSLMODE", "disable"),
		SQLitePath:          get("SQLITE_PATH", "tasktracker.db"),
		FirebaseCredentials: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirebaseProjectID:   get("FIREBASE_PROJECT_ID", ""),
		JWTSecret:           getenv("JWT_SECRET_KEY"),
		SessionCookie:       get("SESSION_COOKIE", "tt_session"),
		CookieSecure:        get("COOKIE_SECURE", "false") == "true",
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverFirestore:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
		if cfg.StoreDriver == DriverMySQL {
			cfg.DBPort = "3306"
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("environment variable JWT_SECRET_KEY is not set")
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.StatementTimeout, err = time.ParseDuration(get("STATEMENT_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("invalid STATEMENT_TIMEOUT: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", ""), ",") {
		if o := strings.TrimRight(strings.TrimSpace(origin), "/"); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}
