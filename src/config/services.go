package config

import (
	"os"
	"strings"
	"time"
)

// StoreConfig locates the persistence backend and the optional Redis server.
// It is read from the environment only, since the settings table lives inside
// the store itself.
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	MySQLDSN      string
	RedisURL      string
	ConnectWait   time.Duration
}

// LoadStoreConfig loads store configuration. The driver is inferred from the
// configured URIs when STORE_DRIVER is not set.
func LoadStoreConfig() StoreConfig {
	cfg := StoreConfig{
		Driver:        strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER"))),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDatabase: strings.TrimSpace(os.Getenv("MONGODB_DATABASE")),
		MySQLDSN:      strings.TrimSpace(os.Getenv("MYSQL_DSN")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		ConnectWait:   10 * time.Second,
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "lockerroom"
	}
	if cfg.Driver == "" {
		switch {
		case cfg.MongoURI != "":
			cfg.Driver = "mongo"
		case cfg.MySQLDSN != "":
			cfg.Driver = "mysql"
		}
	}
	return cfg
}

// BotConfig holds the Discord bot module configuration
type BotConfig struct {
	Base
	PollWindow   time.Duration
	DMWorkers    int
	DMDelay      time.Duration
	DMRetries    int
	DMCooldown   time.Duration
	InviteURL    string
	SupportURL   string
	PremiumPrice string
}

// LoadBotConfig loads bot configuration. Call LoadBase first so the settings
// cache is populated.
func LoadBotConfig(base Base) BotConfig {
	windowHours := getIntSetting("poll_window_hours", "POLL_WINDOW_HOURS", 168)
	if windowHours < 0 {
		windowHours = 0
	}
	workers := getIntSetting("dm_workers", "DM_WORKERS", 2)
	if workers < 1 {
		workers = 1
	}
	delayMS := getIntSetting("dm_delay_ms", "DM_DELAY_MS", 1000)
	if delayMS < 0 {
		delayMS = 0
	}
	retries := getIntSetting("dm_retries", "DM_RETRIES", 3)
	if retries < 0 {
		retries = 0
	}
	cooldown := getIntSetting("dm_cooldown_minutes", "DM_COOLDOWN_MINUTES", 10)

	return BotConfig{
		Base:         base,
		PollWindow:   time.Duration(windowHours) * time.Hour,
		DMWorkers:    workers,
		DMDelay:      time.Duration(delayMS) * time.Millisecond,
		DMRetries:    retries,
		DMCooldown:   time.Duration(cooldown) * time.Minute,
		InviteURL:    GetSetting("invite_url", "INVITE_URL", ""),
		SupportURL:   GetSetting("support_url", "SUPPORT_URL", ""),
		PremiumPrice: GetSetting("premium_price", "PREMIUM_PRICE", "$4.99/month"),
	}
}

// StatusConfig holds the HTTP status server configuration
type StatusConfig struct {
	Port           string
	JWTSecret      string
	AllowedOrigins []string
	TLSCertFile    string
	TLSKeyFile     string
	Enabled        bool
}

// LoadStatusConfig loads HTTP status server configuration
func LoadStatusConfig() StatusConfig {
	var origins []string
	for _, o := range strings.Split(GetSetting("cors_origins", "CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return StatusConfig{
		Port:           GetSetting("port", "PORT", "3000"),
		JWTSecret:      GetSetting("admin_jwt_secret", "ADMIN_JWT_SECRET", ""),
		AllowedOrigins: origins,
		TLSCertFile:    GetSetting("tls_cert_file", "TLS_CERT_FILE", ""),
		TLSKeyFile:     GetSetting("tls_key_file", "TLS_KEY_FILE", ""),
		Enabled:        getBoolSetting("enable_status", "ENABLE_STATUS", true),
	}
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// LoadLogConfig reads logging configuration from the environment.
func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: parseBoolDefault(os.Getenv("LOG_PRETTY"), false),
	}
}
