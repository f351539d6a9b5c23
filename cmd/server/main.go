// Command server runs the washlane platform: tenant resolution, schema
// rebinding, session continuity, the suspension gate and the admin API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/washlane/washlane/internal/app"
	"github.com/washlane/washlane/pkg/config"
	"github.com/washlane/washlane/pkg/logger"
	"github.com/washlane/washlane/pkg/pg"
	"github.com/washlane/washlane/pkg/redis"
	"github.com/washlane/washlane/pkg/requestid"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/tenant"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var (
		appCfg   app.Config
		sessCfg  session.Config
		pgCfg    pg.Config
		redisCfg redis.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&sessCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Environment, "washlane"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			session.LoggerExtractor(),
			session.UserLoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close redis client", slog.Any("error", err))
		}
	}()

	a, err := app.New(appCfg, sessCfg, pool, redisClient, log)
	if err != nil {
		return fmt.Errorf("assemble application: %w", err)
	}

	log.InfoContext(ctx, "starting server",
		slog.String("addr", appCfg.Addr),
		slog.String("environment", appCfg.Environment))
	return a.Run(ctx)
}
