package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/canvas"
	"github.com/alnah/go-paperpdf/internal/config"
	"github.com/alnah/go-paperpdf/internal/storage"
)

// session bundles what a command needs once flags are merged.
type session struct {
	cfg *config.Config
	log *logrus.Logger
}

// openSession validates cfg and builds the logger. merge applies the
// command's flags on top of the file and environment values.
func openSession(common *commonFlags, env *Environment, merge func(*config.Config)) (*session, error) {
	cfg, err := loadConfig(common, env)
	if err != nil {
		return nil, err
	}
	if merge != nil {
		merge(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cfg.Log, common, env.Stderr)
	warnUnknownEnvVars(env.Environ(), log)
	return &session{cfg: cfg, log: log}, nil
}

// openLibrary opens the configured store and loads the canvas library.
// The returned closer releases the store.
func (s *session) openLibrary() (*canvas.Library, func(), error) {
	adapter, closer, err := storage.Open(s.cfg.Storage, storage.WithLogger(s.log))
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	lib := canvas.NewLibrary(canvas.NewRepository(adapter))
	release := func() {
		if err := closer.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close storage")
		}
	}
	return lib, release, nil
}

// mergeStorageFlags applies --storage and --storage-path.
func mergeStorageFlags(cfg *config.Config, backend, path string) {
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if path != "" {
		cfg.Storage.Path = path
	}
}
