package webserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// TLSReloader serves a certificate pair and swaps it when either file
// changes on disk.
type TLSReloader struct {
	certFile string
	keyFile  string

	mu          sync.RWMutex
	cert        *tls.Certificate
	lastModCert time.Time
	lastModKey  time.Time
}

func NewTLSReloader(certFile, keyFile string) (*TLSReloader, error) {
	r := &TLSReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TLSReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load tls pair: %w", err)
	}
	certMod, keyMod := modTime(r.certFile), modTime(r.keyFile)

	r.mu.Lock()
	r.cert = &cert
	r.lastModCert, r.lastModKey = certMod, keyMod
	r.mu.Unlock()
	log.Info().Str("module", "webserver").Str("cert", r.certFile).Msg("TLS certificate loaded")
	return nil
}

func modTime(path string) time.Time {
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

// Changed reports whether either file is newer than the loaded pair.
func (r *TLSReloader) Changed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return modTime(r.certFile).After(r.lastModCert) || modTime(r.keyFile).After(r.lastModKey)
}

// Watch polls the files every interval until ctx ends. A failed reload keeps
// the previous certificate.
func (r *TLSReloader) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.Changed() {
				continue
			}
			if err := r.reload(); err != nil {
				log.Warn().Str("module", "webserver").Err(err).Msg("TLS reload failed")
			}
		}
	}
}

func (r *TLSReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

func (r *TLSReloader) Config() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}
