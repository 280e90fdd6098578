package actions

import (
	"context"
	"fmt"

	"github.com/mrpepsi1069/LockerRoom/src/actions/bot"
	"github.com/mrpepsi1069/LockerRoom/src/api/webserver"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StartAll wires the bot and, when enabled, the status server, then starts
// the manager. rdb may be nil.
func StartAll(ctx context.Context, store data.Store, rdb *redis.Client) (*Manager, error) {
	mgr := NewManager()

	base := config.LoadBase(ctx, store)
	botCfg := config.LoadBotConfig(base)
	botMod, err := bot.NewModule(botCfg, store, rdb)
	if err != nil {
		return nil, fmt.Errorf("actions: init bot module: %w", err)
	}
	if err := mgr.Add(botMod); err != nil {
		return nil, fmt.Errorf("actions: add bot module: %w", err)
	}

	statusCfg := config.LoadStatusConfig()
	if statusCfg.Enabled {
		if statusCfg.JWTSecret == "" {
			log.Info().Str("module", "actions").Msg("admin API disabled: ADMIN_JWT_SECRET not set")
		}
		handler := webserver.New(statusCfg, botMod.Store(), botMod.Premium(), botMod)
		if err := mgr.Add(webserver.NewModule(statusCfg, handler)); err != nil {
			return nil, fmt.Errorf("actions: add webserver module: %w", err)
		}
	} else {
		log.Info().Str("module", "actions").Msg("status server disabled via configuration")
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	return mgr, nil
}
