package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/shop-comments/domain"
	"github.com/Guyuepp/shop-comments/internal/repository"
	"github.com/Guyuepp/shop-comments/internal/repository/memory"
	mysqlRepo "github.com/Guyuepp/shop-comments/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/shop-comments/internal/repository/redis"
	"github.com/Guyuepp/shop-comments/internal/rest"
	"github.com/Guyuepp/shop-comments/internal/rest/middleware"
	"github.com/Guyuepp/shop-comments/internal/usecase/comment"
	"github.com/Guyuepp/shop-comments/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
	bloomInitBatch     = 1000
	serviceName        = "shop-comments"
	shutdownTimeout    = 5 * time.Second
)

func main() {
	log := logrus.New()

	// .env is optional, the process environment wins
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded, using process environment")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	configureLogger(log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	var commentRepo domain.CommentRepository
	switch cfg.StorageDriver {
	case storageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		commentRepo = memory.NewCommentRepository()
	default:
		db := openDatabase(log, cfg.Database)
		defer closeDatabase(log, db)

		client := openCache(ctx, log, cfg.Cache)
		defer func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Error("got error when closing the cache connection")
			}
		}()

		// Comment相关的三层架构
		// 1. DB层
		commentDBRepo := mysqlRepo.NewCommentRepository(db)
		// 2. Cache层
		commentCache := myRedisCache.NewCommentCache(client)
		bloomRepo := myRedisCache.NewRedisBloomRepo(client, cfg.BloomBitSize)

		likesSyncer := workers.NewSyncLikesWorker(commentDBRepo, commentCache, log.WithField("component", "sync_likes"))
		g.Go(func() error {
			likesSyncer.Start(gctx)
			return nil
		})

		// 3. Repository协调层
		coordinator := repository.NewCommentRepository(commentDBRepo, commentCache, bloomRepo, likesSyncer, log.WithField("component", "comment_repository"))
		if err := coordinator.InitBloomFilter(ctx, bloomInitBatch); err != nil {
			log.Fatalf("failed to init bloom filter: %v", err)
		}
		commentRepo = coordinator
	}

	commentSvc := comment.NewService(commentRepo, log.WithField("component", "comment_service"))
	commentHandler := rest.NewCommentHandler(commentSvc, log.WithField("component", "rest"))

	// prepare gin
	gin.SetMode(gin.ReleaseMode)
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(middleware.RequestLogger(log))
	route.Use(middleware.Metrics(serviceName))
	route.Use(middleware.CORS())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))

	route.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := route.Group("")
	if cfg.RateLimitRPS > 0 {
		api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, log.WithField("component", "ratelimit")))
	}
	commentHandler.Register(api)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
	}
	log.Info("Server exiting")
}

func configureLogger(log *logrus.Logger, cfg config) {
	log.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

func openDatabase(log *logrus.Logger, cfg databaseConfig) *gorm.DB {
	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatalf("invalid database config: %v", err)
	}

	var db *gorm.DB
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				log.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db
			} else {
				log.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	log.Fatalf("could not connect to database after retries: %v", err)
	return nil
}

func closeDatabase(log *logrus.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Error("got error when getting sql.DB from gorm.DB")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("got error when closing the DB connection")
	}
}

func openCache(ctx context.Context, log *logrus.Logger, cfg cacheConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("failed to open connection to cache: %v", err)
	}
	return client
}
