package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository"
	"github.com/Guyuepp/recipe-engagement/internal/repository/memory"
	mysqlRepo "github.com/Guyuepp/recipe-engagement/internal/repository/mysql"
	myRedis "github.com/Guyuepp/recipe-engagement/internal/repository/redis"
	"github.com/Guyuepp/recipe-engagement/internal/rest"
	"github.com/Guyuepp/recipe-engagement/internal/rest/middleware"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/comment"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/fanout"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/item"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/like"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/notification"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/stats"
	"github.com/Guyuepp/recipe-engagement/internal/workers"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
	shutdownTimeout     = 5 * time.Second
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file loaded, using process environment")
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		if os.Getenv(key) != "" {
			logrus.Warnf("failed to parse %s, using default %d", key, fallback)
		}
		return fallback
	}
	return v
}

func openDB() (*gorm.DB, error) {
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}

func main() {
	// prepare database
	db, err := openDB()
	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()
	if err := mysqlRepo.AutoMigrate(db); err != nil {
		logrus.Fatalf("failed to migrate schema: %v", err)
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT"),
		Password: os.Getenv("CACHE_PASS"),
		DB:       envInt("CACHE_DB", defaultCacheDB),
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	// Prepare repositories
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	engagementRepo := mysqlRepo.NewEngagementRepository(db)

	itemDBRepo := mysqlRepo.NewItemDBRepository(db)
	itemCache := myRedis.NewItemCache(client)
	itemRepo := repository.NewItemRepository(itemDBRepo, itemCache)

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil {
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedis.NewRedisBloomRepo(client, bloomBitSize)

	var notificationRepo domain.NotificationRepository
	switch backend := os.Getenv("NOTIFICATION_BACKEND"); backend {
	case "", "memory":
		notificationRepo = memory.NewNotificationRepository()
	case "redis":
		notificationRepo = myRedis.NewNotificationRepository(client)
	default:
		logrus.Fatalf("unknown NOTIFICATION_BACKEND %q", backend)
	}
	logrus.Infof("notification backend: %T", notificationRepo)

	// Build service layer
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc := notification.NewService(notificationRepo, envInt("NOTIFICATION_RETENTION", domain.DefaultNotificationRetention))
	fanoutWorker := workers.NewFanoutWorker(
		fanout.NewService(userRepo, notificationSvc),
		workers.FanoutConfig{QueueSize: envInt("FANOUT_QUEUE_SIZE", workers.DefaultQueueSize)},
	)
	// the worker outlives the signal so requests still in flight during
	// srv.Shutdown can hand it their events
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go fanoutWorker.Start(workerCtx)

	itemSvc := item.NewService(itemRepo, bloomRepo)
	likeSvc := like.NewService(itemRepo, engagementRepo, bloomRepo, fanoutWorker)
	statsSvc := stats.NewService(engagementRepo)
	commentSvc := comment.NewService(commentRepo, itemRepo, bloomRepo, fanoutWorker)

	if err := itemSvc.InitBloomFilter(ctx); err != nil {
		logrus.Fatalf("failed to init bloom filter: %v", err)
	}

	itemHandler := rest.NewItemHandler(itemSvc)
	engagementHandler := rest.NewEngagementHandler(likeSvc, statsSvc)
	commentHandler := rest.NewCommentHandler(commentSvc)
	notificationHandler, err := rest.NewNotificationHandler(notificationSvc)
	if err != nil {
		logrus.Fatalf("failed to subscribe notification stream: %v", err)
	}
	defer notificationHandler.Close()

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery(), middleware.Metrics(), middleware.CORS(os.Getenv("CORS_ORIGIN")))
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))
	route.GET("/notifications/stream", notificationHandler.Stream)

	timeout := time.Duration(envInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second
	api := route.Group("/")
	api.Use(middleware.SetRequestContextWithTimeout(timeout))
	{
		api.POST("/items", itemHandler.Store)
		api.GET("/items/:id", itemHandler.GetByID)
		api.DELETE("/items/:id", itemHandler.Delete)

		api.GET("/items/:id/comments", commentHandler.FetchCommentsByItem)
		api.POST("/items/:id/comments", commentHandler.CreateComment)
		api.DELETE("/comments/:id", commentHandler.DeleteComment)

		api.GET("/engagement/stats", engagementHandler.GetStats)
		api.POST("/engagement/:item_id/like", engagementHandler.Like)
		api.DELETE("/engagement/:item_id/like", engagementHandler.Unlike)
		api.POST("/engagement/:item_id/toggle", engagementHandler.Toggle)

		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead)
		api.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	srv.RegisterOnShutdown(notificationHandler.Close)
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	stopWorker()
	logrus.Info("Waiting for fanout worker to flush...")
	select {
	case <-fanoutWorker.Done():
	case <-shutdownCtx.Done():
		logrus.Warn("fanout worker did not finish before shutdown timeout")
	}

	logrus.Info("Server exiting")
}
