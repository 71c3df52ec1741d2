package app

import (
	"context"

	"github.com/wanderstay/wander-chat/internal/api"
	"github.com/wanderstay/wander-chat/internal/bus"
	"github.com/wanderstay/wander-chat/internal/cache"
	"github.com/wanderstay/wander-chat/internal/identity"
	"github.com/wanderstay/wander-chat/internal/lock"
	"github.com/wanderstay/wander-chat/internal/logging"
	"github.com/wanderstay/wander-chat/internal/profile"
	"github.com/wanderstay/wander-chat/internal/state"
	"github.com/wanderstay/wander-chat/internal/status"
	intsync "github.com/wanderstay/wander-chat/internal/sync"
	"github.com/wanderstay/wander-chat/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	APIURL      string
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("client",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideCredentials,
			provideClient,
			provideStore,
			provideCache,
			provideWriter,
			providePoller,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideCredentials(p Params) *identity.Store {
	return identity.NewStore(profile.CredentialsPath(p.ProfileName))
}

func provideClient(p Params, creds *identity.Store, logger *zap.Logger) *api.Client {
	return api.New(p.APIURL, creds, logger)
}

func provideStore(client *api.Client, creds *identity.Store, b *bus.Bus, logger *zap.Logger) *state.Store {
	return state.New(client, creds, b, logger)
}

func provideCache(p Params, logger *zap.Logger) (*cache.DB, error) {
	dbPath := profile.CacheDBPath(p.ProfileName)
	db, err := cache.Open(dbPath)
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

func provideWriter(db *cache.DB, store *state.Store, b *bus.Bus, logger *zap.Logger) *intsync.Writer {
	return intsync.NewWriter(db, store, b, logger)
}

func providePoller(store *state.Store, machine *status.Machine, logger *zap.Logger) *intsync.Poller {
	return intsync.NewPoller(store, machine, logger)
}

func provideApp(p Params, store *state.Store, client *api.Client, creds *identity.Store, machine *status.Machine, b *bus.Bus) *tui.App {
	return tui.NewApp(store, client, creds, machine, b, p.ProfileName)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, ui *tui.App, db *cache.DB, store *state.Store, writer *intsync.Writer, poller *intsync.Poller, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Seed the list from the offline cache so the UI has
			// something to show before the first refresh lands.
			if cached, err := db.ListConversations(); err != nil {
				logger.Warn("cache hydration failed", zap.Error(err))
			} else if len(cached) > 0 {
				store.Hydrate(cached)
				logger.Info("hydrated from cache", zap.Int("conversations", len(cached)))
			}

			writer.Start(context.Background())
			poller.Start(context.Background())

			go func() {
				if err := ui.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()

			return nil
		},
		OnStop: func(_ context.Context) error {
			ui.Stop()
			poller.Stop()
			writer.Stop()
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
