package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadStoreConfigInfersDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("MYSQL_DSN", "user:pw@tcp(db:3306)/lr")
	t.Setenv("REDIS_URL", " redis://cache:6379/0 ")

	cfg := LoadStoreConfig()
	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "lockerroom", cfg.MongoDatabase)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)

	t.Setenv("MONGODB_URI", "mongodb://db")
	assert.Equal(t, "mongo", LoadStoreConfig().Driver)

	t.Setenv("STORE_DRIVER", "Memory")
	assert.Equal(t, "memory", LoadStoreConfig().Driver)
}

func TestLoadBotConfigDefaults(t *testing.T) {
	for _, k := range []string{"POLL_WINDOW_HOURS", "DM_WORKERS", "DM_DELAY_MS", "DM_RETRIES", "DM_COOLDOWN_MINUTES", "PREMIUM_PRICE"} {
		t.Setenv(k, "")
	}
	cfg := LoadBotConfig(Base{Token: "t"})
	assert.Equal(t, "t", cfg.Token)
	assert.Equal(t, 168*time.Hour, cfg.PollWindow)
	assert.Equal(t, 2, cfg.DMWorkers)
	assert.Equal(t, time.Second, cfg.DMDelay)
	assert.Equal(t, 3, cfg.DMRetries)
	assert.Equal(t, 10*time.Minute, cfg.DMCooldown)
	assert.Equal(t, "$4.99/month", cfg.PremiumPrice)
}

func TestLoadBotConfigClamps(t *testing.T) {
	t.Setenv("POLL_WINDOW_HOURS", "-5")
	t.Setenv("DM_WORKERS", "0")
	t.Setenv("DM_DELAY_MS", "-1")
	t.Setenv("DM_RETRIES", "nope")

	cfg := LoadBotConfig(Base{})
	assert.Zero(t, cfg.PollWindow)
	assert.Equal(t, 1, cfg.DMWorkers)
	assert.Zero(t, cfg.DMDelay)
	assert.Equal(t, 3, cfg.DMRetries)
}

func TestLoadStatusConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENABLE_STATUS", "off")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadStatusConfig()
	assert.Equal(t, "3000", cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, parseBoolDefault("YES", false))
	assert.False(t, parseBoolDefault(" 0 ", true))
	assert.True(t, parseBoolDefault("maybe", true))
}
