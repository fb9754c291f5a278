package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/api"
	"github.com/alnah/go-paperpdf/internal/config"
)

// Server timeouts. Writes allow a full capture.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// runServe exposes the paper catalog, the canvas library and exports over
// HTTP until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseServeFlags(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	s, err := openSession(&f.common, env, func(cfg *config.Config) {
		if f.addr != "" {
			cfg.Server.Addr = f.addr
		}
		mergeStorageFlags(cfg, f.backend, f.path)
	})
	if err != nil {
		return err
	}

	lib, release, err := s.openLibrary()
	if err != nil {
		return err
	}
	defer release()

	// One exporter keeps the per-surface guard shared by all requests.
	opts := append(exporterOptions(s.cfg, s.log), env.ExporterOptions...)
	exp := paperpdf.NewExporter(opts...)
	defer func() {
		if err := exp.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close browser")
		}
	}()

	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %v", ErrUsage, s.cfg.Server.Addr, err)
	}

	srv := &http.Server{
		Handler:           api.NewServer(lib, exp, api.WithLogger(s.log)).Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("Listening")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("Server stopped")
	return nil
}
