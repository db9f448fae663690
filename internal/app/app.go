// Package app wires configuration into the storage, state store, content key
// session and catalog shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jaki95/hls-asset-manager/config"
	"github.com/jaki95/hls-asset-manager/internal/catalog"
	"github.com/jaki95/hls-asset-manager/internal/contentkey"
	"github.com/jaki95/hls-asset-manager/internal/domain"
	"github.com/jaki95/hls-asset-manager/internal/media"
	"github.com/jaki95/hls-asset-manager/internal/progress"
	"github.com/jaki95/hls-asset-manager/internal/state"
	"github.com/jaki95/hls-asset-manager/internal/storage"
)

// App is the application container.
type App struct {
	Config    *config.Config
	Storage   storage.Storage
	Store     state.Store
	Session   *contentkey.Session
	Catalog   *catalog.Manager
	Downloads *catalog.Downloads
	Notifier  *progress.Notifier
	Registry  *prometheus.Registry

	closers []io.Closer
}

// New builds every component described by cfg and loads the stream catalog.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:   cfg,
		Notifier: progress.NewNotifier(),
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector())

	var err error
	if a.Storage, err = a.newStorage(ctx); err != nil {
		return nil, err
	}

	if a.Store, err = a.newStateStore(); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Session = contentkey.NewSession(contentkey.WithMetrics(contentkey.NewMetrics(a.Registry)))
	a.closers = append(a.closers, a.Session)
	slog.Info("Content key session started", "session", a.Session.ID())

	streams, err := domain.LoadStreams(cfg.Catalog.Path)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Catalog = catalog.NewManager(media.NewLoader(a.Storage), a.Session)
	if _, err := a.Catalog.Load(ctx, streams); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Downloads = catalog.NewDownloads(a.Catalog, a.Store, a.Storage)

	return a, nil
}

func (a *App) newStorage(ctx context.Context) (storage.Storage, error) {
	switch a.Config.Storage.Type {
	case "gcs":
		s, err := storage.NewGCSStorage(ctx, a.Config.Storage.Bucket, a.Config.Storage.ObjectPrefix, a.Config.Storage.CredentialsFile)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case "local":
		return storage.NewLocalFileStorage(a.Config.Storage.OutputDir)
	default:
		return nil, fmt.Errorf("%w: unknown storage type %q", config.ErrInvalidConfig, a.Config.Storage.Type)
	}
}

func (a *App) newStateStore() (state.Store, error) {
	switch a.Config.StateStore.Type {
	case "sqlite":
		s, err := state.OpenSQLite(a.Config.StateStore.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case "redis":
		s := state.NewRedisStore(a.Config.StateStore.RedisAddr, a.Config.StateStore.RedisPassword, a.Config.StateStore.RedisDB)
		a.closers = append(a.closers, s)
		return s, nil
	case "memory":
		return state.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown state store type %q", config.ErrInvalidConfig, a.Config.StateStore.Type)
	}
}

// Close releases components in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
