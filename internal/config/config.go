package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DecimalStyle fixes how numeral strings in message content are read.
// "comma-decimal" means comma is the decimal separator and period groups
// thousands ("1.234,56"); "period-decimal" is the inverse ("1,234.56").
type DecimalStyle string

const (
	DecimalStyleComma  DecimalStyle = "comma-decimal"
	DecimalStylePeriod DecimalStyle = "period-decimal"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Secret used to verify inbound webhook signatures
	WebhookSecret string

	// Deployment locale for the extraction pipeline
	DefaultCurrency  string
	DecimalStyle     DecimalStyle
	Timezone         string
	DefaultEventHour int // anchor hour for events with no explicit time

	// Engine tuning
	ConfidenceThreshold float64
	RecordSkipped       bool // write skipped ledger rows for rejected rules
	UnitTimeoutSeconds  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	style := DecimalStyle(getEnv("DECIMAL_STYLE", string(DecimalStylePeriod)))
	if style != DecimalStyleComma && style != DecimalStylePeriod {
		log.Printf("Unknown DECIMAL_STYLE %q, falling back to period-decimal", style)
		style = DecimalStylePeriod
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "whatsflow"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "whatsflow"),

		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		DefaultCurrency:  getEnv("DEFAULT_CURRENCY", "MXN"),
		DecimalStyle:     style,
		Timezone:         getEnv("TIMEZONE", "America/Mexico_City"),
		DefaultEventHour: getEnvInt("DEFAULT_EVENT_HOUR", 9),

		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		RecordSkipped:       getEnv("RECORD_SKIPPED", "false") == "true",
		UnitTimeoutSeconds:  getEnvInt("UNIT_TIMEOUT_SECONDS", 30),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s: %q, using %d", key, value, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s: %q, using %g", key, value, fallback)
	}
	return fallback
}
