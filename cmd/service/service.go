// @title        Sweet Shop API
// @version      1.0
// @description  Inventory backend for the sweet shop dashboard.
// @host         localhost:5000
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweet-shop/internal/api"
	"sweet-shop/internal/cache"
	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
	"sweet-shop/internal/events"
	"sweet-shop/internal/logger"
	"sweet-shop/internal/metrics"
	"sweet-shop/internal/router"
	"sweet-shop/internal/service"
	"sweet-shop/internal/worker"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "sweet-shop/docs" // registers the swagger document
)

const (
	shutdownTimeout = 10 * time.Second
	eventQueueSize  = 256
)

var (
	loadConfig        = config.Load
	newLogger         = logger.New
	newPgxPool        = database.NewPgxPool
	newRedisClient    = cache.NewRedisClient
	runMigrationsFn   = database.RunMigrations
	newWorkerPool     = worker.NewPool
	newKafkaPublisher = func(brokers []string, topic string) events.Publisher {
		return events.NewKafkaPublisher(brokers, topic)
	}
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	// shutdownSignal blocks until the process is asked to stop or ctx ends.
	shutdownSignal = func(ctx context.Context) {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
	}
	exitFunc = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database ready")

	var rdb cache.Cache
	if cfg.Redis.Addr != "" {
		rdb, err = newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("close redis", zap.Error(err))
			}
		}()
		log.Info("login throttling enabled", zap.String("redis", cfg.Redis.Addr))
	}

	tokens, err := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	m := metrics.New()

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = newKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("publishing inventory events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	dispatcher := events.NewDispatcher(newWorkerPool(cfg.WorkerCount, eventQueueSize, log), pub, log)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			log.Warn("close event publisher", zap.Error(err))
		}
	}()

	var throttle *service.LoginThrottle
	if rdb != nil {
		throttle = service.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window, log)
	}
	authSvc := service.NewAuthService(db, tokens, cfg.BcryptCost, throttle, log)
	catalog := service.NewCatalogService(db, events.Emitters{dispatcher, m}, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()

	router.Use(e, router.Options{
		Log:         log,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	})
	router.Setup(e, router.Deps{
		DB:      db,
		Cache:   rdb,
		Tokens:  tokens,
		Auth:    authSvc,
		Catalog: catalog,
		Metrics: m,
	})

	return serve(e, cfg.Addr(), log)
}

// serve runs the server until it fails or a shutdown signal arrives, then
// drains in-flight requests.
func serve(e *echo.Echo, addr string, log *zap.Logger) error {
	// the goroutines may outlive serve, so they must not read the hooks
	start, waitSignal := startServer, shutdownSignal

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		errCh <- start(e, addr)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		waitSignal(ctx)
		cancel()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
