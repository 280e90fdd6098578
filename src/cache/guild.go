package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	guildKeyPrefix  = "lockerroom:guild:"
	DefaultGuildTTL = 5 * time.Minute
)

// GuildCache decorates a data.Store, serving GetGuild from Redis and
// invalidating the entry on every guild write. Redis failures fall through to
// the store.
type GuildCache struct {
	data.Store
	rdb *redis.Client
	ttl time.Duration
}

func NewGuildCache(store data.Store, rdb *redis.Client, ttl time.Duration) *GuildCache {
	if ttl <= 0 {
		ttl = DefaultGuildTTL
	}
	return &GuildCache{Store: store, rdb: rdb, ttl: ttl}
}

func guildKey(id string) string { return guildKeyPrefix + id }

func (c *GuildCache) GetGuild(ctx context.Context, guildID string) (*data.Guild, error) {
	raw, err := c.rdb.Get(ctx, guildKey(guildID)).Bytes()
	if err == nil {
		var g data.Guild
		if jerr := json.Unmarshal(raw, &g); jerr == nil {
			return &g, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Debug().Str("module", "cache").Err(err).Msg("guild cache read failed")
	}

	g, err := c.Store.GetGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if payload, jerr := json.Marshal(g); jerr == nil {
		if serr := c.rdb.Set(ctx, guildKey(guildID), payload, c.ttl).Err(); serr != nil {
			log.Debug().Str("module", "cache").Err(serr).Msg("guild cache write failed")
		}
	}
	return g, nil
}

func (c *GuildCache) invalidate(ctx context.Context, guildID string, err error) error {
	if derr := c.rdb.Del(ctx, guildKey(guildID)).Err(); derr != nil {
		log.Warn().Str("module", "cache").Str("guild", guildID).Err(derr).Msg("guild cache invalidation failed")
	}
	return err
}

func (c *GuildCache) UpsertGuild(ctx context.Context, guildID, name string) error {
	return c.invalidate(ctx, guildID, c.Store.UpsertGuild(ctx, guildID, name))
}

func (c *GuildCache) SetGuildChannel(ctx context.Context, guildID, key, channelID string) error {
	return c.invalidate(ctx, guildID, c.Store.SetGuildChannel(ctx, guildID, key, channelID))
}

func (c *GuildCache) SetGuildRole(ctx context.Context, guildID, key, roleID string) error {
	return c.invalidate(ctx, guildID, c.Store.SetGuildRole(ctx, guildID, key, roleID))
}

func (c *GuildCache) MarkGuildSetup(ctx context.Context, guildID string) error {
	return c.invalidate(ctx, guildID, c.Store.MarkGuildSetup(ctx, guildID))
}

func (c *GuildCache) SetPremium(ctx context.Context, guildID string, premium bool, expiresAt *time.Time) error {
	return c.invalidate(ctx, guildID, c.Store.SetPremium(ctx, guildID, premium, expiresAt))
}
