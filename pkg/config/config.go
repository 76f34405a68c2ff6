package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
	Mail     MailConfig
	Orders   OrdersConfig
	Import   ImportConfig
}

type ServerConfig struct {
	AppEnv        string
	DevAddr       string
	AllowedOrigin []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// CatalogTTL bounds how long a normalized catalog stays cached.
	CatalogTTL     time.Duration
	IdempotencyTTL time.Duration
}

type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	ClientEmail     string
	PrivateKey      string
	CredentialsJSON string
}

type MailConfig struct {
	ResendAPIKey string
	From         string
	AdminEmail   string
	Timeout      time.Duration
}

type OrdersConfig struct {
	// Sink is one of "sheets", "postgres" or "both".
	Sink          string
	SubmitTimeout time.Duration
}

type ImportConfig struct {
	Region string
	// LocalCSV stands in for the S3 object when running locally.
	LocalCSV string
}

// Load builds the runtime configuration from the process environment.
// Call LoadEnv first so .env.local values are visible.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:        getEnv("APP_ENV", "development"),
			DevAddr:       getEnv("DEV_ADDR", "localhost:8080"),
			AllowedOrigin: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "lubestation"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvInt("REDIS_DB", 0),
			CatalogTTL:     getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
			IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("GOOGLE_SHEET_ID", ""),
			SheetName:       getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
			ClientEmail:     getEnv("GOOGLE_CLIENT_EMAIL", ""),
			PrivateKey:      getEnv("GOOGLE_PRIVATE_KEY", ""),
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_BASE64", ""),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", "LubeStation <onboarding@resend.dev>"),
			AdminEmail:   getEnv("ADMIN_EMAIL", "atg.toan@gmail.com"),
			Timeout:      getEnvDuration("MAIL_TIMEOUT", 10*time.Second),
		},
		Orders: OrdersConfig{
			Sink:          getEnv("ORDER_SINK", "sheets"),
			SubmitTimeout: getEnvDuration("ORDER_SUBMIT_TIMEOUT", 15*time.Second),
		},
		Import: ImportConfig{
			Region:   getEnv("AWS_REGION", "ap-southeast-1"),
			LocalCSV: getEnv("IMPORT_LOCAL_CSV", "products.csv"),
		},
	}
}

// IsLocal reports whether the process runs on a workstation, where S3
// uploads are read from IMPORT_LOCAL_CSV.
func (c *Config) IsLocal() bool {
	return c.Server.AppEnv == "local"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
