package server

import (
	"context"
	"time"

	"github.com/matheus3301/teleclone/internal/config"
	"github.com/matheus3301/teleclone/internal/gemini"
	"github.com/matheus3301/teleclone/internal/logging"
	"github.com/matheus3301/teleclone/internal/profile"
	"github.com/matheus3301/teleclone/internal/repo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved server configuration passed to the fx module.
type Params struct {
	Addr     string
	DBDriver string
	DBDSN    string
	LogPath  string // empty = default server log path
	Gemini   gemini.Config
}

// ParamsFromConfig combines cfg with the provider secrets from the environment.
func ParamsFromConfig(cfg *config.Config) Params {
	g := gemini.ConfigFromEnv()
	g.Model = cfg.Server.Model
	return Params{
		Addr:     cfg.Server.Addr,
		DBDriver: cfg.Server.DBDriver,
		DBDSN:    cfg.Server.DBDSN,
		Gemini:   g,
	}
}

// Module returns the fx module for the server, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("server",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideRepo,
			func(g *repo.Gorm) repo.Repository { return g },
			provideGenerator,
			NewHandler,
			NewRouter,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	path := p.LogPath
	if path == "" {
		path = profile.ServerLogPath()
	}
	return logging.New(path, logging.Options{Component: "telecloned", Console: true})
}

func provideRepo(p Params, logger *zap.Logger) (*repo.Gorm, error) {
	g, err := repo.Open(p.DBDriver, p.DBDSN, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("store initialized", zap.String("driver", p.DBDriver))
	return g, nil
}

func provideGenerator(p Params, logger *zap.Logger) (gemini.Generator, error) {
	return gemini.New(context.Background(), p.Gemini, logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, g *repo.Gorm, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := repo.Seed(ctx, g, time.Now(), logger); err != nil {
				logger.Error("seeding failed", zap.Error(err))
			}

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("http server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil {
				logger.Warn("http shutdown incomplete", zap.Error(err))
			}
			if err := g.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			logger.Info("server stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
