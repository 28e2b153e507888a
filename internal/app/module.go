// Package app composes the client with fx: config, logging, the sqlite
// cache, the REST client, the outbox sender and the TUI shell.
package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/config"
	"github.com/SarahGBoland/FriendSnap/internal/convo"
	"github.com/SarahGBoland/FriendSnap/internal/lock"
	"github.com/SarahGBoland/FriendSnap/internal/logging"
	"github.com/SarahGBoland/FriendSnap/internal/outbox"
	"github.com/SarahGBoland/FriendSnap/internal/session"
	"github.com/SarahGBoland/FriendSnap/internal/status"
	"github.com/SarahGBoland/FriendSnap/internal/store"
	"github.com/SarahGBoland/FriendSnap/internal/tui"
	"github.com/SarahGBoland/FriendSnap/internal/tui/model"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
}

// Module returns the fx module for the client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("friendsnap",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideClient,
			provideAggregator,
			provideSender,
			provideViewModel,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(session.ConfigPath())
	if err != nil {
		// Missing config is normal on first run.
		return &config.Config{}
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.CacheDBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideClient(cfg *config.Config) *api.Client {
	baseURL := cfg.BaseURL
	if envURL := os.Getenv("FRIENDSNAP_BASE_URL"); envURL != "" {
		baseURL = envURL
	}
	return api.New(baseURL)
}

func provideAggregator(client *api.Client, db *store.DB, logger *zap.Logger) *convo.Aggregator {
	return convo.NewAggregator(client, db, logger)
}

func provideSender(db *store.DB, client *api.Client, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(db, client, b, logger)
}

func provideViewModel(p Params, client *api.Client, db *store.DB, b *bus.Bus, machine *status.Machine, aggregator *convo.Aggregator, cfg *config.Config, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(client, db, b, machine, aggregator, logger, p.SessionName, cfg.PollInterval())
}

func provideApp(p Params, vm *model.ViewModel, b *bus.Bus) *tui.App {
	return tui.NewApp(vm, b, p.SessionName)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, sender *outbox.Sender, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sender.Start(context.Background())

			// The TUI owns the foreground; fx shuts down when it exits.
			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()

			return nil
		},
		OnStop: func(_ context.Context) error {
			sender.Stop()
			app.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing cache", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
