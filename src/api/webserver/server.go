package webserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/actions/core"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/rs/zerolog/log"
)

var _ core.Module = (*Module)(nil)

const tlsWatchInterval = 5 * time.Minute

// Module serves the status and admin API until stopped, over TLS when a
// certificate pair is configured.
type Module struct {
	cfg    config.StatusConfig
	srv    *http.Server
	cancel context.CancelFunc
}

func NewModule(cfg config.StatusConfig, handler http.Handler) *Module {
	return &Module{cfg: cfg, srv: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (m *Module) Name() string { return "webserver" }

// Start binds the port synchronously so a taken port fails startup, then
// serves in the background.
func (m *Module) Start(ctx context.Context) error {
	var reloader *TLSReloader
	if m.cfg.TLSCertFile != "" && m.cfg.TLSKeyFile != "" {
		var err error
		if reloader, err = NewTLSReloader(m.cfg.TLSCertFile, m.cfg.TLSKeyFile); err != nil {
			return fmt.Errorf("webserver: %w", err)
		}
	}

	ln, err := net.Listen("tcp", m.srv.Addr)
	if err != nil {
		return fmt.Errorf("webserver: listen %s: %w", m.srv.Addr, err)
	}
	if reloader != nil {
		watchCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		go reloader.Watch(watchCtx, tlsWatchInterval)
		ln = tls.NewListener(ln, reloader.Config())
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Str("module", "webserver").Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("module", "webserver").Str("addr", ln.Addr().String()).Bool("tls", reloader != nil).Msg("status server listening")
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	if m.cancel != nil {
		m.cancel()
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(shutCtx); err != nil {
		log.Warn().Str("module", "webserver").Err(err).Msg("shutdown failed")
	}
}
