package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradingagent/backend/internal/config"
	"tradingagent/backend/internal/handler"
	"tradingagent/backend/internal/middleware"
	"tradingagent/backend/internal/repository"
	"tradingagent/backend/internal/service"
	"tradingagent/backend/pkg/database"
	"tradingagent/backend/pkg/logger"
	"tradingagent/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	log.Info("Starting Trading Agent API...")
	log.Infof("Environment: %s", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("Connecting to %s store...", cfg.Database.Driver)
	db, err := database.New(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectRetries:  cfg.Database.ConnectRetries,
	})
	if err != nil {
		log.Fatal("Failed to connect to store", err)
	}
	defer db.Close()
	log.Info("✓ Store connected")

	if cfg.Database.InitSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			// the bot owns the schema; reporting still works if it already exists
			log.Error("Failed to initialize schema", err)
		}
	}

	svc := service.NewReportService(
		repository.NewSnapshotRepository(db),
		repository.NewOperationRepository(db),
		service.Limits{Default: cfg.Report.DefaultLimit, Max: cfg.Report.MaxLimit},
		log,
	)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis...")
		redisClient, err = redis.New(redis.Config{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", err)
		}
		defer redisClient.Close()
		log.Info("✓ Redis connected")

		svc.WithCache(redisClient, cfg.Report.CacheTTL)
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if redisClient != nil && cfg.RateLimit.RequestsPerMinute > 0 {
		router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute, log))
	}

	handler.NewReportHandler(svc).Register(router)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
