package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
)

// BotStatus is the view of the running bot the status endpoints report.
type BotStatus interface {
	Username() string
	GuildCount() int
	Started() time.Time
}

// New builds the HTTP handler. The admin group is mounted only when a JWT
// secret is configured.
func New(cfg config.StatusConfig, store data.Store, prem *premium.Service, bot BotStatus) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	attachRoutes(r, cfg, store, prem, bot)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.StatusConfig, store data.Store, prem *premium.Service, bot BotStatus) {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	statusH := NewStatus(store, bot)
	r.GET("/", statusH.Status)
	r.GET("/status", statusH.Status)
	r.GET("/healthz", statusH.Health)

	if cfg.JWTSecret == "" {
		return
	}
	admin := r.Group("/v1/admin")
	admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(NewRateLimiter(60, time.Minute)))
	{
		adminH := NewAdmin(store, prem)
		admin.GET("/stats", adminH.Stats)
		admin.POST("/premium", adminH.GrantPremium)
		admin.DELETE("/premium/:guild", adminH.RevokePremium)
	}
}
