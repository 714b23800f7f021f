package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"api_sales/api"
	"api_sales/internal/events"
	"api_sales/internal/platform/config"
	"api_sales/internal/platform/logger"
	"api_sales/internal/platform/metrics"
	"api_sales/internal/platform/redis"
	"api_sales/internal/products"
	"api_sales/internal/sales"
	"api_sales/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api_sales: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	salesStore, productStore, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	salesService := sales.NewService(salesStore, productStore, publisher, log, sales.WithMetrics(m))
	productService := products.NewService(productStore, publisher, log, m)

	r := gin.Default()
	api.InitRoutes(r, api.Dependencies{
		Sales:    salesService,
		Products: productService,
		Logger:   log,
		Gatherer: reg,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error trying to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStores returns the Postgres stores when DATABASE_URL is set and the
// in-memory ones otherwise.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (sales.Storage, products.Storage, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory storage")
		return sales.NewLocalStorage(), products.NewLocalStorage(), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	log.Info("using postgres storage")
	return postgres.NewSalesStore(db), postgres.NewProductStore(db), closer(db, log), nil
}

func closer(db *sql.DB, log *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

func openPublisher(ctx context.Context, cfg config.Config, log *zap.Logger) (events.Publisher, func(), error) {
	switch cfg.EventPublisher {
	case config.PublisherKafka:
		client, err := events.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		log.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return events.NewKafkaPublisher(client, cfg.KafkaTopic), client.Close, nil
	case config.PublisherRedis:
		client, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("publishing events to redis stream", zap.String("stream", cfg.RedisStream))
		return events.NewRedisStreamPublisher(client, cfg.RedisStream, 10000), func() { _ = client.Close() }, nil
	default:
		return events.NewLogPublisher(log), func() {}, nil
	}
}
