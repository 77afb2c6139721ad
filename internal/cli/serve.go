package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcastelli/motdepasse-server/internal/factory"
	"github.com/lcastelli/motdepasse-server/internal/server"
	redisstorage "github.com/lcastelli/motdepasse-server/internal/storage/redis"
)

type serveOptions struct {
	host        string
	port        int
	wordsFile   string
	idleTTL     time.Duration
	storageType string
	redisURL    string
	logLevel    string
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{
		port:        8080,
		idleTTL:     5 * time.Minute,
		storageType: os.Getenv("STORAGE_TYPE"),
		redisURL:    os.Getenv("REDIS_URL"),
		logLevel:    "info",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", opts.host, "Interface to bind")
	cmd.Flags().IntVar(&opts.port, "port", opts.port, "Port to listen on")
	cmd.Flags().StringVar(&opts.wordsFile, "words", opts.wordsFile, "Word bank file (default: embedded bank)")
	cmd.Flags().DurationVar(&opts.idleTTL, "idle-room-ttl", opts.idleTTL, "How long empty rooms are kept")
	cmd.Flags().StringVar(&opts.storageType, "storage", opts.storageType, "Storage backend: memory, redis (env: STORAGE_TYPE)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis connection URL (env: REDIS_URL)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level: debug, info, warn, error")

	return cmd
}

func runServe(opts serveOptions) error {
	logger := newLogger(opts.logLevel)
	slog.SetDefault(logger)

	cfg := factory.Config{
		WordBankPath: opts.wordsFile,
		IdleRoomTTL:  opts.idleTTL,
		Logger:       logger,
		StorageType:  opts.storageType,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = opts.redisURL
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer app.Close()

	logger.Info("word bank loaded",
		slog.Int("words", app.WordBank.WordCount()),
		slog.Int("categories", len(app.WordBank.Categories())),
	)

	router := server.NewRouter(server.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
	})

	serverConfig := server.DefaultConfig()
	serverConfig.Host = opts.host
	serverConfig.Port = opts.port
	srv := server.New(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
