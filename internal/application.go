package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-server/internal/config"
	"github.com/rocketscienceinc/tictactoe-server/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-server/internal/repository"
	"github.com/rocketscienceinc/tictactoe-server/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-server/internal/service"
	"github.com/rocketscienceinc/tictactoe-server/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-server/transport/rest"
	"github.com/rocketscienceinc/tictactoe-server/transport/websocket"
)

// RunApp - runs the application until SIGINT or SIGTERM, or until one of its parts fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	var (
		observer usecase.SessionObserver
		sessions service.SessionService
	)

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
		tracker := service.NewSessionTracker(logger, sessionRepo)

		group.Go(func() error {
			return tracker.Run(groupCtx)
		})

		observer = tracker
		sessions = service.NewSessionService(sessionRepo)
	}

	origins := conf.AllowedOrigins()

	gateway := websocket.New(logger, origins, appMetrics)
	gateway.SetGameManager(usecase.NewGameManager(logger, gateway, appMetrics, observer))

	router := rest.NewRouter(logger, rest.RouterConfig{
		Gateway:   gateway,
		Gatherer:  registry,
		Sessions:  sessions,
		PublicDir: conf.PublicDir,
	})

	group.Go(func() error {
		return gateway.Run(groupCtx)
	})

	group.Go(func() error {
		return rest.Start(groupCtx, logger, conf.Port, router)
	})

	log.Info("tictactoe server started",
		"port", conf.Port,
		"origins", origins,
		"connectPath", rest.ConnectPath,
		"redis", conf.Redis.Enabled,
	)

	if err := group.Wait(); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}

	log.Info("application stopped")

	return nil
}
