package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// ConnectPath - route of the websocket gateway.
	ConnectPath = "/TicTacToe/connect"

	shutdownTimeout = 5 * time.Second
)

type RouterConfig struct {
	Gateway   http.Handler
	Gatherer  prometheus.Gatherer
	Sessions  sessionService
	PublicDir string
}

// NewRouter - builds the HTTP surface of the game server. Sessions may be nil when the live
// session directory is disabled.
func NewRouter(logger *slog.Logger, conf RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	handlers := newHandlers(logger, conf.Sessions)

	router.GET("/ping", pingHandler)
	router.GET("/gameConstants", handlers.gameConstants)
	router.GET("/sessions", handlers.listSessions)
	router.GET("/sessions/:id", handlers.getSession)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(conf.Gatherer, promhttp.HandlerOpts{})))
	router.GET(ConnectPath, gin.WrapH(conf.Gateway))

	if conf.PublicDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(conf.PublicDir))))
	}

	return router
}

// Start - serves handler on port until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) error {
	log := logger.With("method", "Start")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped with error: %w", err)
		}

		log.Info("HTTP server stopped")

		return nil
	}
}

// requestLogger - logs every request except the websocket upgrade, which is logged by the gateway.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	log := logger.With("component", "http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if c.FullPath() == ConnectPath {
			return
		}

		log.Debug("request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
