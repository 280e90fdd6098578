// Package drivers selects and opens the configured data.Store.
package drivers

import (
	"context"
	"fmt"

	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/data/memory"
	"github.com/mrpepsi1069/LockerRoom/src/data/mongo"
	"github.com/mrpepsi1069/LockerRoom/src/data/mysql"
	"github.com/mrpepsi1069/LockerRoom/src/data/noop"
	"github.com/rs/zerolog/log"
)

// Connect opens the configured driver and returns its error unchanged.
func Connect(ctx context.Context, cfg config.StoreConfig) (data.Store, error) {
	if cfg.ConnectWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectWait)
		defer cancel()
	}

	switch cfg.Driver {
	case "mongo", "mongodb":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is not set")
		}
		return mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "mysql":
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN is not set")
		}
		return mysql.Open(ctx, cfg.MySQLDSN)
	case "memory":
		return memory.New(), nil
	case "":
		return nil, fmt.Errorf("%w: no store configured", data.ErrUnavailable)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Open is Connect that never fails: an unreachable or unconfigured store
// degrades to the no-op layer so the bot still answers commands.
func Open(ctx context.Context, cfg config.StoreConfig) data.Store {
	store, err := Connect(ctx, cfg)
	if err != nil {
		log.Error().Str("module", "store").Str("driver", cfg.Driver).Err(err).
			Msg("store unavailable, continuing with no-op data layer")
		return noop.Store{}
	}
	return store
}
