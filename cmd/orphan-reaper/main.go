package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/princekumarofficial/media-service/internal/config"
	"github.com/princekumarofficial/media-service/internal/logger"
	"github.com/princekumarofficial/media-service/internal/orphans"
	"github.com/princekumarofficial/media-service/internal/services/upload"
)

const (
	reapInterval = time.Minute
	reapBatch    = 100
)

func main() {
	// Load config
	cfg := config.MustLoad()
	appLogger := logger.Init(cfg.Log, "orphan-reaper")

	if cfg.Redis.Address == "" {
		log.Fatal("orphan reaper needs redis: set REDIS_ADDRESS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, err := upload.NewRemote(ctx, cfg.Remote)
	if err != nil {
		log.Fatal("Failed to initialize remote storage:", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))

	reaper := orphans.NewReaper(
		orphans.NewLedger(redisClient),
		upload.NewBridge(remote, cfg.Upload.Timeout),
		reapInterval,
		reapBatch,
		appLogger,
	)

	// Start blocks until a shutdown signal cancels ctx
	reaper.Start(ctx)

	slog.Info("Orphan reaper stopped")
}
