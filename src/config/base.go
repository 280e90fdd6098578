package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/rs/zerolog/log"
)

// Base contains common configuration fields
type Base struct {
	Token   string
	GuildID string
	OwnerID string
}

// LoadBase loads common configuration (discord token, dev guild, bot owner).
// Settings stored in the database win over the environment.
func LoadBase(ctx context.Context, store data.SettingsStore) Base {
	if store != nil {
		if err := data.LoadSettings(ctx, store); err != nil {
			log.Warn().Str("module", "config").Err(err).Msg("settings unavailable, using environment")
		}
	}

	return Base{
		Token:   GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID: GetSetting("guild_id", "GUILD_ID", ""),
		OwnerID: GetSetting("owner_id", "OWNER_ID", ""),
	}
}

// GetSetting retrieves a setting with env fallback
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" && envKey != "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return strings.TrimSpace(val)
}

func getBoolSetting(settingKey, envKey string, defaultValue bool) bool {
	if v := data.GetSetting(settingKey); v != "" {
		return parseBoolDefault(v, defaultValue)
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return parseBoolDefault(v, defaultValue)
		}
	}
	return defaultValue
}

func getIntSetting(settingKey, envKey string, defaultValue int) int {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("module", "config").Str("setting", settingKey).Str("value", raw).Msg("not an integer, using default")
		return defaultValue
	}
	return v
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
