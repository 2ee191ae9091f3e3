package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/princekumarofficial/media-service/docs"
	"github.com/princekumarofficial/media-service/internal/cache"
	"github.com/princekumarofficial/media-service/internal/config"
	"github.com/princekumarofficial/media-service/internal/events"
	"github.com/princekumarofficial/media-service/internal/http/handlers/health"
	"github.com/princekumarofficial/media-service/internal/http/handlers/media"
	"github.com/princekumarofficial/media-service/internal/http/handlers/users"
	wsHandler "github.com/princekumarofficial/media-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/media-service/internal/http/middleware"
	"github.com/princekumarofficial/media-service/internal/logger"
	"github.com/princekumarofficial/media-service/internal/metrics"
	"github.com/princekumarofficial/media-service/internal/orphans"
	"github.com/princekumarofficial/media-service/internal/ratelimit"
	mediaService "github.com/princekumarofficial/media-service/internal/services/media"
	"github.com/princekumarofficial/media-service/internal/services/upload"
	"github.com/princekumarofficial/media-service/internal/storage"
	"github.com/princekumarofficial/media-service/internal/storage/postgres"
	"github.com/princekumarofficial/media-service/internal/websocket"
)

// @title Media Service API
// @version 1.0
// @description Image and video ingestion backed by a remote media service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	// load config
	cfg := config.MustLoad()
	appLogger := logger.Init(cfg.Log, "media-service")

	if !cfg.Remote.CredentialsConfigured() {
		log.Fatalf("remote %s credentials not configured", cfg.Remote.Provider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database setup
	pg, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer pg.Close()
	slog.Info("Connected to Postgres database")

	remote, err := upload.NewRemote(ctx, cfg.Remote)
	if err != nil {
		log.Fatal("Failed to initialize remote storage:", err)
	}
	bridge := upload.NewBridge(remote, cfg.Upload.Timeout)
	slog.Info("Remote storage ready", slog.String("provider", cfg.Remote.Provider))

	var (
		store       storage.Storage = pg
		limiter     *ratelimit.Limiter
		ledger      media.OrphanLedger
		redisClient *redis.Client
	)
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis not reachable, continuing", slog.String("error", err.Error()))
		} else {
			slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))
		}

		store = cache.NewCacheService(pg, redisClient)
		limiter = ratelimit.New(redisClient, nil)
		ledger = orphans.NewLedger(redisClient)
	} else {
		slog.Warn("Redis disabled: no rate limiting, listing cache or orphan ledger")
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("Failed to register metrics:", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	mediaHandlers := media.NewMediaHandlers(media.Deps{
		Uploader:              bridge,
		Recorder:              mediaService.NewRecorder(store),
		Lister:                mediaService.NewReader(store),
		Orphans:               ledger,
		Events:                events.NewEventPublisher(hub),
		Metrics:               m,
		CredentialsConfigured: cfg.Remote.CredentialsConfigured(),
		Limits: media.Limits{
			MaxFileSize:    cfg.Upload.MaxFileSize,
			MaxMemory:      cfg.Upload.MaxMemory,
			CleanupOrphans: cfg.Upload.CleanupOrphans,
			PersistTimeout: cfg.Upload.PersistTimeout,
		},
	})

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	rl := middleware.NewRateLimit(limiter)

	// setup router
	router := http.NewServeMux()

	router.Handle("POST /upload-image", auth(rl.Wrap(ratelimit.ActionImageUpload, mediaHandlers.UploadImage())))
	router.Handle("POST /upload-video", auth(rl.Wrap(ratelimit.ActionVideoUpload, mediaHandlers.UploadVideo())))
	router.HandleFunc("GET /videos", mediaHandlers.ListVideos())

	router.HandleFunc("POST /signup", users.SignUp(store))
	router.HandleFunc("POST /login", users.Login(store, cfg.JWTSecret))

	router.HandleFunc("GET /ws", wsHandler.WebSocketHandler(hub, cfg.JWTSecret))
	router.HandleFunc("GET /healthz", health.Healthz(store))
	router.Handle("GET /metrics", promhttp.Handler())
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if redisClient != nil {
		router.Handle("GET /admin/cache", auth(cache.GetCacheStats(redisClient)))
		router.Handle("DELETE /admin/cache", auth(cache.ClearCache(redisClient)))
	}

	handler := middleware.Chain(router,
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(appLogger),
		chimw.Recoverer,
	)

	server := http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
