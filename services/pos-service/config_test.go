package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "pos")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "pos")
	t.Setenv("AWS_USE_SECRETS", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("TERMINAL_ID", "till-7")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8095", cfg.Port)
	assert.Equal(t, "till-7", cfg.TerminalID)
	assert.Equal(t, 200, cfg.LocalOrderCacheSize)
	assert.Equal(t, 50, cfg.ActivityFeedSize)
	assert.Equal(t, "18", cfg.TaxRate.String())
	assert.Equal(t, 2*time.Second, cfg.ScanCooldown)
	assert.Equal(t, 10*time.Second, cfg.RemoteWriteTimeout)
	assert.Equal(t, OrderStorePostgres, cfg.OrderStoreDriver)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setDBEnv(t)
	t.Setenv("TAX_RATE", "12.5")
	t.Setenv("SCAN_COOLDOWN", "750ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ORDER_STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_DB_URL", "mongodb://localhost:27017")
	t.Setenv("SCANNER_DEVICE", "/dev/ttyACM0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "12.5", cfg.TaxRate.String())
	assert.Equal(t, 750*time.Millisecond, cfg.ScanCooldown)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, OrderStoreMongo, cfg.OrderStoreDriver)
	assert.Equal(t, "/dev/ttyACM0", cfg.ScannerDevice)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"negative tax", "TAX_RATE", "-1"},
		{"bad tax", "TAX_RATE", "eighteen"},
		{"zero cache", "LOCAL_ORDER_CACHE_SIZE", "0"},
		{"bad cooldown", "SCAN_COOLDOWN", "soon"},
		{"unknown driver", "ORDER_STORE_DRIVER", "sqlite"},
		{"mongo without url", "ORDER_STORE_DRIVER", "mongo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setDBEnv(t)
			t.Setenv("MONGO_DB_URL", "")
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingDB(t *testing.T) {
	setDBEnv(t)
	t.Setenv("POSTGRES_PASSWORD", "")
	_, err := LoadConfig()
	assert.EqualError(t, err, "database config incomplete")
}
