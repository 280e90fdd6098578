package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mrpepsi1069/LockerRoom/src/actions"
	"github.com/mrpepsi1069/LockerRoom/src/cache"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data/drivers"
	"github.com/mrpepsi1069/LockerRoom/src/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	logCfg := config.LoadLogConfig()
	logging.Init(logCfg.Level, logCfg.Pretty)
	gin.SetMode(gin.ReleaseMode)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	if err := run(sigs); err != nil {
		log.Error().Str("module", "main").Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// run owns every opened resource so deferred closes run on all paths. It
// blocks until a signal arrives on stop.
func run(stop <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storeCfg := config.LoadStoreConfig()
	store := drivers.Open(ctx, storeCfg)
	defer store.Close()
	log.Info().Str("module", "main").Str("driver", store.Driver()).Msg("store ready")

	rdb, err := cache.Connect(ctx, storeCfg.RedisURL)
	if err != nil {
		log.Warn().Str("module", "main").Err(err).Msg("redis unavailable, continuing without cache")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	manager, err := actions.StartAll(ctx, store, rdb)
	if err != nil {
		return fmt.Errorf("actions start: %w", err)
	}

	sig := <-stop
	log.Info().Str("module", "main").Str("signal", sig.String()).Msg("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	cancel()
	if err := manager.Stop(stopCtx); err != nil {
		log.Warn().Str("module", "main").Err(err).Msg("stop")
	}
	return nil
}
