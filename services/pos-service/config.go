package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/database"
)

const (
	OrderStorePostgres = "postgres"
	OrderStoreMongo    = "mongo"
)

// Config holds all configuration for the POS service.
type Config struct {
	Port       string
	AppEnv     string
	TerminalID string

	Postgres database.PostgresConfig

	OrderStoreDriver string
	MongoURL         string
	MongoDBName      string

	RedisURL            string
	LocalOrderCacheSize int
	ActivityFeedSize    int

	ProductsTable string
	BarcodeIndex  string

	TaxRate            decimal.Decimal
	ScanCooldown       time.Duration
	ScannerDevice      string
	RemoteWriteTimeout time.Duration

	KafkaBrokers     []string
	OrderEventsTopic string
	OrderSNSTopicARN string
	ReceiptQueueURL  string

	RateLimitPerMinute int
	RateLimitBurst     int
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8095"),
		AppEnv:     getEnv("APP_ENV", "development"),
		TerminalID: getEnv("TERMINAL_ID", hostnameOr("terminal-1")),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		},
		OrderStoreDriver: strings.ToLower(getEnv("ORDER_STORE_DRIVER", OrderStorePostgres)),
		MongoURL:         os.Getenv("MONGO_DB_URL"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "pos"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ProductsTable:    getEnv("DDB_TABLE_PRODUCTS", "products"),
		BarcodeIndex:     getEnv("DDB_BARCODE_INDEX", "barcode-index"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "pos.order-events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),
		ReceiptQueueURL:  os.Getenv("RECEIPT_QUEUE_URL"),
		ScannerDevice:    os.Getenv("SCANNER_DEVICE"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.LocalOrderCacheSize, err = getEnvInt("LOCAL_ORDER_CACHE_SIZE", 200); err != nil {
		return nil, err
	}
	if cfg.ActivityFeedSize, err = getEnvInt("ACTIVITY_FEED_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 600); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 50); err != nil {
		return nil, err
	}
	if cfg.ScanCooldown, err = getEnvDuration("SCAN_COOLDOWN", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.RemoteWriteTimeout, err = getEnvDuration("REMOTE_WRITE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "18")); err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}

	// Override DB credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		applyDBSecrets(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDBSecrets(cfg *Config) {
	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return
	}
	m, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, "pos/DB_CREDENTIALS")
	if err != nil {
		return
	}
	if v := m["POSTGRES_USER"]; v != "" {
		cfg.Postgres.User = v
	}
	if v := m["POSTGRES_PASSWORD"]; v != "" {
		cfg.Postgres.Password = v
	}
	if v := m["POSTGRES_DB"]; v != "" {
		cfg.Postgres.DB = v
	}
	if v := m["POSTGRES_HOST"]; v != "" {
		cfg.Postgres.Host = v
	}
	if v := m["POSTGRES_PORT"]; v != "" {
		cfg.Postgres.Port = v
	}
	if v := m["MONGO_DB_URL"]; v != "" {
		cfg.MongoURL = v
	}
}

func (c *Config) validate() error {
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative")
	}
	if c.LocalOrderCacheSize <= 0 || c.ActivityFeedSize <= 0 {
		return fmt.Errorf("cache sizes must be positive")
	}
	// The customer ledger always lives in Postgres.
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DB == "" {
		return fmt.Errorf("database config incomplete")
	}
	switch c.OrderStoreDriver {
	case OrderStorePostgres:
	case OrderStoreMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_DB_URL is required when ORDER_STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown ORDER_STORE_DRIVER %q", c.OrderStoreDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func hostnameOr(fallback string) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return fallback
}
