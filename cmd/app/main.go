package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "chronicle/internal/adapters/database"
	"chronicle/internal/adapters/httpapi"
	redisadapter "chronicle/internal/adapters/redis"
	"chronicle/internal/config"
	feedapp "chronicle/internal/core/feed/service"
	followerapp "chronicle/internal/core/follower/service"
	groupapp "chronicle/internal/core/group/service"
	postapp "chronicle/internal/core/post/service"
	userapp "chronicle/internal/core/user/service"
	"chronicle/internal/pagecache"
	"chronicle/internal/workers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		config.InitLogger(config.LogConfig{Level: "info"})
		config.Logger.Fatal("Invalid configuration", zap.Error(err))
	}
	config.InitLogger(cfg.Log)
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	config.InitDB(cfg.Database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store pagecache.Store
	switch cfg.PageCache.Backend {
	case "redis":
		config.InitRedis(ctx, cfg.Redis)
		store = redisadapter.NewPageCacheRepositoryRedis(config.RedisClient, redisadapter.DefaultPrefix)
	default:
		memory, err := pagecache.NewMemoryStore(cfg.PageCache.Size)
		if err != nil {
			config.Logger.Fatal("Error creating page cache", zap.Error(err))
		}
		store = memory
	}
	defer closeResources(config.Logger)

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(config.DB)
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(config.DB)
	feedRepo := dbadapter.NewFeedRepositoryDatabase(config.DB)
	statsRepo := dbadapter.NewStatsRepositoryDatabase(config.DB)

	userSvc := userapp.NewUserService(userRepo, []byte(cfg.Auth.JWTSecret), cfg.Auth.AdminUsernames)
	postSvc := postapp.NewPostService(postRepo, groupRepo)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo)
	feedSvc := feedapp.NewFeedService(feedRepo, userRepo, groupRepo, followerRepo, cfg.Feed.PostsPerPage)
	groupSvc := groupapp.NewGroupService(groupRepo)
	cache := pagecache.New(store, cfg.PageCache.TTL)

	r := httpapi.SetupRoutes(userSvc, postSvc, followerSvc, feedSvc, groupSvc, cache, []byte(cfg.Auth.JWTSecret))

	statsWorker := workers.NewStatsWorker(statsRepo, cfg.Stats.Interval, config.Logger)
	go statsWorker.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		config.Logger.Info("App is running...", zap.String("addr", srv.Addr), zap.String("pageCache", cfg.PageCache.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Error during shutdown", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger) {
	if config.RedisClient != nil {
		if err := config.RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
	_ = logger.Sync()
}
