package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultScrapeTimeoutSeconds bounds the external registry scrape.
	// The judicial API can be extremely slow under load.
	DefaultScrapeTimeoutSeconds = 90
)

type Config struct {
	ServerPort  string
	Environment string
	// Stores
	DBPath   string // document store (Master Case Documents)
	CasesDir string // per-user filesystem store (Dashboard Templates)
	// Side effects
	CalendarDir string
	ExportDir   string
	// CPNU registry
	CPNUBaseURL         string
	ScrapeTimeoutSecs   int
	JudicialRefreshCron string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Cloudflare R2 Storage (optional mirror for generated exports)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DBPath:              getEnv("DB_PATH", "db/app.db"),
		CasesDir:            getEnv("CASES_DIR", "data/cases"),
		CalendarDir:         getEnv("CALENDAR_DIR", "data/calendar"),
		ExportDir:           getEnv("EXPORT_DIR", "data/exports"),
		CPNUBaseURL:         getEnv("CPNU_BASE_URL", "https://consultaprocesos.ramajudicial.gov.co:448/api/v2"),
		ScrapeTimeoutSecs:   getEnvInt("CPNU_TIMEOUT_SECONDS", DefaultScrapeTimeoutSeconds),
		JudicialRefreshCron: getEnv("JUDICIAL_REFRESH_CRON", "0 0 * * *"),
		ResendAPIKey:        getEnv("RESEND_API_KEY", ""),
		EmailFrom:           getEnv("EMAIL_FROM", "noreply@lexsync.app"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "LexSync"),
		EmailTestMode:       getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		R2AccountID:         getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:       getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:        getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:         getEnv("R2_PUBLIC_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("[WARNING] Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
