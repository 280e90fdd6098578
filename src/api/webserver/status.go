package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/discord"
	"github.com/rs/zerolog/log"
)

type Status struct {
	store data.Store
	bot   BotStatus
	now   func() time.Time
}

func NewStatus(store data.Store, bot BotStatus) Status {
	return Status{store: store, bot: bot, now: time.Now}
}

func (s Status) Status(c *gin.Context) {
	up := s.now().Sub(s.bot.Started())
	c.JSON(http.StatusOK, gin.H{
		"status":         "online",
		"bot":            s.bot.Username(),
		"uptime":         discord.Uptime(up),
		"uptime_seconds": int64(up.Seconds()),
		"guilds":         s.bot.GuildCount(),
	})
}

// Health answers 503 while the store is unreachable.
func (s Status) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		log.Warn().Str("module", "webserver").Str("driver", s.store.Driver()).Err(err).Msg("health check failed")
		c.String(http.StatusServiceUnavailable, "store unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("module", "webserver").
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
