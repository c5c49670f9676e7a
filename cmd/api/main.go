package main

// @title AIS Address Service API
// @version 1.0.0
// @description Reverse geocoding and service area lookup over the address information system snapshot.
// @description Coordinates may be given as WGS84 lon,lat or PA State Plane South (US ft) easting,northing.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/ais-service/docs"
	"github.com/ais-service/internal/bootstrap"
	"github.com/ais-service/internal/config"
	httpDelivery "github.com/ais-service/internal/delivery/http"
	"github.com/ais-service/internal/delivery/http/handler"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/pkg/logger"
	"github.com/ais-service/internal/repository/cache"
	redisRepo "github.com/ais-service/internal/repository/redis"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase"
	"github.com/ais-service/internal/worker"
	"github.com/ais-service/internal/worker/refresh"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting AIS Address Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("index_source", cfg.Index.Source),
		zap.Float64("max_radius_ft", cfg.Index.MaxRadius),
	)

	// 3. Snapshot source and geocode selection
	source, err := bootstrap.NewSnapshotSource(cfg, log)
	if err != nil {
		log.Fatal("Failed to open snapshot source", zap.Error(err))
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Error("Failed to close snapshot source", zap.Error(err))
		}
	}()

	resolver, err := bootstrap.NewResolver(cfg)
	if err != nil {
		log.Fatal("Invalid geocode type configuration", zap.Error(err))
	}

	// 4. Optional Redis cache
	var cacheRepo repository.CacheRepository
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis cache enabled")
	}

	// 5. Use cases
	store := spatial.NewGenerationStore()
	indexUC := usecase.NewIndexUseCase(source, resolver, store, cacheRepo, log)
	reverseUC := usecase.NewReverseGeocodeUseCase(store, cacheRepo, log, bootstrap.MatchParams(cfg))
	serviceAreaUC := usecase.NewServiceAreaUseCase(store, cacheRepo, log, bootstrap.Envelope(cfg), cfg.Cache.ServiceAreaTTL)
	lookupUC := usecase.NewLookupUseCase(store, log, cfg.Index.PageSize)

	// 6. Initial index build. The server starts either way and reports 503 until a build succeeds.
	buildCtx, buildCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	if _, err := indexUC.Rebuild(buildCtx, "startup"); err != nil {
		log.Error("Initial index build failed, serving unavailable until the next refresh", zap.Error(err))
	}
	buildCancel()

	// 7. Refresh worker
	var workerManager *worker.WorkerManager
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Worker.Enabled {
		var streamRepo repository.StreamRepository
		if cfg.Redis.Enabled && cfg.Worker.RefreshStream != "" {
			streamClient, err := cache.NewRedisStreams(&cfg.Redis, cfg.Worker.StreamReadTimeout, log)
			if err != nil {
				log.Fatal("Failed to connect to Redis for streams", zap.Error(err))
			}
			defer streamClient.Close()
			streamRepo = redisRepo.NewStreamRepository(streamClient, cfg.Worker.StreamReadTimeout, log)
		}

		workerManager = worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
		workerManager.Register(refresh.NewIndexRefreshWorker(streamRepo, indexUC, refresh.Options{
			Interval:      cfg.Worker.RefreshInterval,
			Stream:        cfg.Worker.RefreshStream,
			ConsumerGroup: cfg.Worker.ConsumerGroup,
			ConsumerName:  cfg.Worker.ConsumerName,
		}, log))

		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 8. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewReverseGeocodeHandler(reverseUC, log),
		handler.NewServiceAreaHandler(serviceAreaUC, log),
		handler.NewLookupHandler(lookupUC, log),
		handler.NewIndexHandler(indexUC, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if workerManager != nil {
		if err := workerManager.Stop(); err != nil {
			log.Error("Worker shutdown error", zap.Error(err))
		}
	}
	workerCancel()

	log.Info("Server stopped successfully")
}
