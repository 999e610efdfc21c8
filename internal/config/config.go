package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	AuthModeDemo      = "demo"
	AuthModeDirectory = "directory"
)

type Config struct {
	AppPort           string
	AppEnv            string
	LogLevel          string
	JWTSecret         string
	InternalSecretKey string
	AllowedOrigin     string

	AuthMode         string
	DefaultStaffRole string

	TaxRate  decimal.Decimal
	BagPrice decimal.Decimal

	PaymentDelay time.Duration
	ScanDelay    time.Duration
	ReceiptDelay time.Duration
	LoginDelay   time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		LogLevel:          strings.ToLower(os.Getenv("LOG_LEVEL")),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeDemo)),
		DefaultStaffRole:  strings.ToLower(getEnv("DEFAULT_STAFF_ROLE", "cashier")),
		TaxRate:           getDecimal("TAX_RATE", "0.0725"),
		BagPrice:          getDecimal("BAG_PRICE", "0.10"),
		PaymentDelay:      getDuration("PAYMENT_DELAY", 2*time.Second),
		ScanDelay:         getDuration("SCAN_DELAY", 2*time.Second),
		ReceiptDelay:      getDuration("RECEIPT_DELAY", 2*time.Second),
		LoginDelay:        getDuration("LOGIN_DELAY", time.Second),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "quickcheckout-dev-secret"
	}

	if cfg.AuthMode != AuthModeDemo && cfg.AuthMode != AuthModeDirectory {
		log.Fatalf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getDecimal(key, fallback string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw != "" {
		d, err := decimal.NewFromString(raw)
		if err == nil && !d.IsNegative() {
			return d
		}
		log.Printf("invalid %s=%q, using %s", key, raw, fallback)
	}
	return decimal.RequireFromString(fallback)
}
