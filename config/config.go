package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TargetURL  string
	WebhookURL string

	MonthsToCapture int
	MaxRetries      int
	IntervalHours   int
	RunOnce         bool

	ReportDir          string
	ReportFilesEnabled bool

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		TargetURL:  getEnv("TARGET_URL", "https://loja.multiclubes.com.br/balipark/Ingressos/CP0014?Promoter=aWFmSjE1SnI3MW8vRzN0RlI0WjVDZz09"),
		WebhookURL: getEnv("WEBHOOK_URL", "https://webh.criativamaisdigital.com.br/webhook/ff8054c3-7505-48f8-a581-463b5ff19bd5"),

		MonthsToCapture: getEnvInt("MONTHS_TO_CAPTURE", 6),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		IntervalHours:   getEnvInt("SCRAPE_INTERVAL_HOURS", 6),
		RunOnce:         getEnvBool("RUN_ONCE", false),

		ReportDir:          getEnv("REPORT_DIR", "./output"),
		ReportFilesEnabled: getEnvBool("REPORT_FILES_ENABLED", true),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "availability_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
