package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"openframing-service/internal/adapters/primary/http/handlers"
	"openframing-service/internal/adapters/primary/http/middleware"
	"openframing-service/internal/adapters/secondary/postgres"
	"openframing-service/internal/adapters/secondary/redisq"
	"openframing-service/internal/adapters/secondary/smtpmail"
	"openframing-service/internal/config"
	ports "openframing-service/internal/core/ports/output"
	"openframing-service/internal/core/services"
	"openframing-service/internal/datafiles"
	"openframing-service/internal/metrics"
	"openframing-service/internal/runner"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Redis (job queue + progress store)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}
	log.Info("redis connection established")

	// Project data directory
	files := datafiles.NewStore(cfg.Data.Dir)
	if err := files.Init(); err != nil {
		log.Fatalf("init data dir: %v", err)
	}

	// Secondary adapters
	classifierRepo := postgres.NewClassifierRepository(pool)
	testSetRepo := postgres.NewTestSetRepository(pool)
	topicModelRepo := postgres.NewTopicModelRepository(pool)
	queue := redisq.NewJobQueue(redisClient, cfg.Redis.QueueName)
	progressStore := redisq.NewProgressStore(redisClient, cfg.Redis.ProgressTTL)

	var mailer ports.Mailer
	if cfg.SMTP.Enabled() {
		mailer, err = smtpmail.New(cfg.SMTP)
		if err != nil {
			log.Fatalf("create mailer: %v", err)
		}
		log.Info("smtp mailer initialized")
	} else {
		mailer = smtpmail.NopMailer{}
		log.Info("smtp not configured, notifications disabled")
	}

	// Core services
	classifierSvc := services.NewClassifierService(classifierRepo, queue, progressStore, files)
	testSetSvc := services.NewTestSetService(testSetRepo, classifierRepo, queue, progressStore, files)
	topicModelSvc := services.NewTopicModelService(topicModelRepo, queue, progressStore, files)
	progressSvc := services.NewProgressService(classifierRepo, testSetRepo, topicModelRepo, progressStore)

	// Metrics registry
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	jobMetrics := metrics.NewJobMetrics(promRegistry)

	// Router
	h := handlers.New(classifierSvc, testSetSvc, topicModelSvc, progressSvc)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterRoutes(&router.RouterGroup)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if cfg.Worker.Count > 0 {
		jobRunner := runner.New(queue, progressStore, classifierRepo, testSetRepo, topicModelRepo, files, mailer, jobMetrics, cfg.Worker.Count)
		g.Go(func() error {
			log.Infof("starting %d background workers", cfg.Worker.Count)
			return jobRunner.Run(gctx)
		})
	} else {
		log.Info("background workers disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("exit: %v", err)
	}
	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
