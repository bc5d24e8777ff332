package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"service-catalog/config"
	"service-catalog/internal/handler"
	"service-catalog/internal/kafka"
	"service-catalog/internal/metrics"
	"service-catalog/internal/middleware"
	"service-catalog/internal/redis"
	"service-catalog/internal/repository"
	"service-catalog/internal/server"
	"service-catalog/internal/services"
	"service-catalog/internal/transport/httpdto"
	"service-catalog/pkg/database"
	"service-catalog/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	err := run(cfg, l)
	if err != nil {
		l.Logger.Error("service stopped with error", zap.Error(err))
	}
	l.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the service and blocks until SIGINT or SIGTERM. Every resource
// it opens is closed before it returns.
func run(cfg *config.Config, l *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	producer, err := kafka.NewProducer(cfg.Kafka, l.Named("kafka"), m)
	if err != nil {
		return fmt.Errorf("kafka producer setup failed: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			l.Logger.Warn("kafka producer close failed", zap.Error(err))
		}
	}()

	brokers, err := kafka.NewBrokerChecker(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka health check setup failed: %w", err)
	}

	tenantRepo := repository.NewTenantRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	replicator := services.NewTenantReplicator(tenantRepo, l.Named("services"), m)
	consumer, err := kafka.NewTenantConsumer(cfg.Kafka, replicator, l.Named("kafka"), m)
	if err != nil {
		return fmt.Errorf("kafka consumer setup failed: %w", err)
	}

	if err := httpdto.RegisterValidators(); err != nil {
		return fmt.Errorf("validator setup failed: %w", err)
	}

	categoryService := services.NewCategoryService(categoryRepo, producer, l.Named("services"))
	serviceService := services.NewServiceService(serviceRepo, categoryRepo, producer, l.Named("services"))

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redis.Ping(ctx, redisClient); err != nil {
		l.Logger.Warn("redis unreachable, write rate limiting will fail open", zap.Error(err))
	}
	limiter := redis.NewRateLimiter(redisClient, redis.RateLimitConfig{
		WriteLimit:  cfg.RateLimitWrites,
		WriteWindow: cfg.RateLimitWriteWindow,
	})

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Category: handler.NewCategoryHandler(categoryService),
		Service:  handler.NewServiceHandler(serviceService, categoryService),
	}, server.Dependencies{
		Verifier: middleware.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Limiter:  limiter,
		Metrics:  m,
		Gatherer: reg,
		Health: map[string]server.HealthCheck{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"kafka":    brokers.Ping,
		},
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()

	err = srv.Start(ctx)

	stop()
	wg.Wait()
	l.Infof("tenant events consumer stopped")
	return err
}
