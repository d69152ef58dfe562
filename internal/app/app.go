package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/conexus/internal/config"
	"github.com/MrSnakeDoc/conexus/internal/connect"
	"github.com/MrSnakeDoc/conexus/internal/database"
	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/httpserver"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/mw"
	"github.com/MrSnakeDoc/conexus/internal/ident"
	"github.com/MrSnakeDoc/conexus/internal/logger"
	"github.com/MrSnakeDoc/conexus/internal/redis"
	"github.com/MrSnakeDoc/conexus/internal/sources/homepage"
	"github.com/MrSnakeDoc/conexus/internal/store/memory"
	"github.com/MrSnakeDoc/conexus/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/conexus/internal/store/redis"
	"github.com/MrSnakeDoc/conexus/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	store  domain.Store
	close  func()
}

// New wires configuration, logger, store and HTTP server. Nothing listens
// until Run; a backend that cannot be reached fails here.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	disabled, err := mw.ParseStages(cfg.DisabledStages)
	if err != nil {
		return nil, fmt.Errorf("CONEXUS_DISABLE_STAGES: %w", err)
	}
	pipeline := mw.Pipeline{
		Disabled:         disabled,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		CompressionLevel: cfg.CompressionLevel,
		TraceHeaders:     cfg.TraceHeaders,
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	d := deps.Deps{
		Logger:       log,
		Store:        store,
		IDs:          ident.V7{},
		MaxBodyBytes: cfg.MaxBodyBytes,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		server: httpserver.New(cfg, d, pipeline),
		store:  store,
		close:  closeStore,
	}, nil
}

func probeOptions(cfg *config.Config) connect.Options {
	return connect.Options{
		Timeout:       cfg.ConnectTimeout,
		RetryInterval: cfg.ConnectRetryInterval,
		MaxWait:       cfg.ConnectMaxWait,
		PingTimeout:   cfg.ConnectPingTimeout,
		WarnThreshold: cfg.ConnectWarnThreshold,
	}
}

// openStore builds the configured gateway and returns the function that
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.Store, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		opts := database.Options{
			Protocol: cfg.DBProtocol,
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
			MaxConns: int32(cfg.DBMaxConns),
		}
		db, err := database.New(ctx, opts)
		if err != nil {
			return nil, nil, err
		}

		probe := probeOptions(cfg)
		probe.Name = "postgres"
		probe.Target = opts.Redacted()
		if err := connect.Wait(ctx, db.Ping, probe, log); err != nil {
			db.Close()
			return nil, nil, err
		}

		if cfg.DBEnsureSchema {
			if err := db.EnsureSchema(ctx); err != nil {
				db.Close()
				return nil, nil, err
			}
			log.Info("database schema ensured")
		}
		return postgres.NewStore(db, cfg.DBQueryTimeout), db.Close, nil

	case config.StoreRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Probe:        probeOptions(cfg),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis", logger.Error(err))
			}
		}
		return redisstore.NewStore(client, cfg.DBQueryTimeout), closeClient, nil

	case config.StoreMemory:
		log.Warn("using the in-memory store, bookmarks are lost on restart")
		return memory.NewStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// Run seeds the store when configured, serves HTTP and blocks until
// SIGINT/SIGTERM or a server failure.
func (a *App) Run() error {
	defer a.close()
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenAddr)
	a.logger.Info("store selected", logger.String("store", a.cfg.Store))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.SeedFile != "" {
		if _, err := homepage.NewImporter(a.store, ident.V7{}, a.logger).Import(ctx, a.cfg.SeedFile); err != nil {
			return fmt.Errorf("seed import failed: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ conexus stopped cleanly")
	return nil
}
