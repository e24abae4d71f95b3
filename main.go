package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	app "github.com/rocketscienceinc/tictactoe-server/internal"
	"github.com/rocketscienceinc/tictactoe-server/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf)

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config: config file and environment first, then command-line flags.
func initConfig() *config.Config {
	configPath := flag.String("config", "config.yml", "path to the config file")
	port := flag.String("port", "", "port to listen on")
	origins := flag.String("origins", "", "comma-separated list of allowed websocket origins")

	flag.StringVar(port, "p", "", "shorthand for -port")
	flag.StringVar(origins, "o", "", "shorthand for -origins")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	if *port != "" {
		conf.Port = *port
	}

	if *origins != "" {
		conf.Origins = strings.Split(*origins, ",")
	}

	return conf
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
