// Package daemon composes the MCP daemon: config, logger, session lock,
// read-only message store, bridge client, and the stdio tool server.
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/matheus3301/wamcp/internal/bridge"
	"github.com/matheus3301/wamcp/internal/config"
	"github.com/matheus3301/wamcp/internal/lock"
	"github.com/matheus3301/wamcp/internal/logging"
	"github.com/matheus3301/wamcp/internal/mcp"
	"github.com/matheus3301/wamcp/internal/session"
	"github.com/matheus3301/wamcp/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	StorePath   string // optional override for testing; empty = use session default
}

// Module returns the fx module for the daemon, composing all providers and
// lifecycle hooks. fx's own events go through the zap logger so stdout stays
// clean for the stdio protocol.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideConfig,
			provideLock,
			provideStore,
			provideBridge,
			provideServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Options wraps Module with app-level options that must apply to the whole
// fx.App, not just this module.
func Options(p Params) fx.Option {
	return fx.Options(
		Module(p),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName)
}

func provideConfig(logger *zap.Logger) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(session.ConfigPath())
	if err != nil {
		return nil, err
	}
	logger.Info("config loaded", zap.String("bridge_api_url", cfg.BridgeAPIURL))
	return cfg, nil
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

func provideStore(p Params, cfg *config.Config, logger *zap.Logger) (*store.DB, error) {
	dbPath := p.StorePath
	if dbPath == "" {
		dbPath = cfg.StorePath
	}
	if dbPath == "" {
		dbPath = session.StorePath(p.SessionName)
	}
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
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideBridge(cfg *config.Config, logger *zap.Logger) *bridge.Client {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	return bridge.NewClient(cfg.BridgeAPIURL, timeout, logger.Named("bridge"))
}

func provideServer(db *store.DB, bc *bridge.Client, logger *zap.Logger) *mcp.Server {
	return mcp.New(db, bc, logger.Named("mcp"))
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *mcp.Server, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Serve blocks until stdin closes; when it does the daemon is
			// done and the app should come down with it.
			go func() {
				err := srv.Serve(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("mcp server error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
