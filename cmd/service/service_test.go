package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweet-shop/internal/cache"
	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
	"sweet-shop/internal/events"
	"sweet-shop/internal/logger"
	"sweet-shop/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restoreGlobals() {
	loadConfig = config.Load
	newLogger = logger.New
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newWorkerPool = worker.NewPool
	newKafkaPublisher = func(brokers []string, topic string) events.Publisher {
		return events.NewKafkaPublisher(brokers, topic)
	}
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownSignal = func(ctx context.Context) { <-ctx.Done() }
	exitFunc = func(code int) {}
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL: "postgres://localhost/sweets",
		Port:        5000,
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		JWT:         config.JWTConfig{Secret: "secret", TTL: time.Hour},
		BcryptCost:  4,
		Login:       config.LoginConfig{MaxAttempts: 5, Window: time.Minute},
		Kafka:       config.KafkaConfig{Topic: "sweet-events"},
		WorkerCount: 1,
	}
}

// stubDeps replaces every external constructor with fakes.
func stubDeps(t *testing.T, cfg *config.Config) map[string]bool {
	t.Helper()
	restoreGlobals()
	t.Cleanup(restoreGlobals)

	called := make(map[string]bool)
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	newLogger = func(string) (*zap.Logger, error) { return zap.NewNop(), nil }
	newPgxPool = func(ctx context.Context, url string, maxConns int32) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, cfg.DatabaseURL, url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	newKafkaPublisher = func([]string, string) events.Publisher {
		called["kafka"] = true
		return events.NopPublisher{}
	}
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":5000", addr)
		return nil
	}
	return called
}

func TestRunSuccess(t *testing.T) {
	called := stubDeps(t, testConfig())

	require.NoError(t, run())
	require.True(t, called["pgx"])
	require.True(t, called["migrate"])
	require.True(t, called["start"])
	require.True(t, called["dbClose"])
	require.False(t, called["redis"])
	require.False(t, called["kafka"])
}

func TestRunWithRedisAndKafka(t *testing.T) {
	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Addr: "127.0.0.1:6379", Password: "pw", DB: 1}
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	called := stubDeps(t, cfg)

	require.NoError(t, run())
	require.True(t, called["redis"])
	require.True(t, called["redisClose"])
	require.True(t, called["kafka"])
}

func TestRunServesRoutes(t *testing.T) {
	stubDeps(t, testConfig())
	var srv *echo.Echo
	startServer = func(e *echo.Echo, addr string) error { srv = e; return nil }

	require.NoError(t, run())
	require.NotNil(t, srv)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"OK"`)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sweets", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"No token provided"}`, rec.Body.String())
}

func TestRunErrors(t *testing.T) {
	stubDeps(t, testConfig())
	loadConfig = func() (*config.Config, error) { return nil, errors.New("config") }
	require.ErrorContains(t, run(), "load config")

	stubDeps(t, testConfig())
	newLogger = func(string) (*zap.Logger, error) { return nil, errors.New("level") }
	require.ErrorContains(t, run(), "create logger")

	stubDeps(t, testConfig())
	newPgxPool = func(context.Context, string, int32) (database.DB, error) { return nil, errors.New("db") }
	require.ErrorContains(t, run(), "connect database")

	stubDeps(t, testConfig())
	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.ErrorContains(t, run(), "run migrations")

	cfg := testConfig()
	cfg.Redis.Addr = "127.0.0.1:6379"
	stubDeps(t, cfg)
	newRedisClient = func(string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
	require.ErrorContains(t, run(), "connect redis")

	cfg = testConfig()
	cfg.JWT.Secret = ""
	stubDeps(t, cfg)
	require.ErrorContains(t, run(), "token manager")

	stubDeps(t, testConfig())
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.ErrorContains(t, run(), "http server")
}

func TestServeIgnoresServerClosed(t *testing.T) {
	stubDeps(t, testConfig())
	startServer = func(*echo.Echo, string) error { return http.ErrServerClosed }
	require.NoError(t, serve(echo.New(), ":0", zap.NewNop()))
}

func TestServeShutsDownOnSignal(t *testing.T) {
	stubDeps(t, testConfig())
	release := make(chan struct{})
	done := make(chan struct{})
	// runs before restoreGlobals: the server goroutine must be gone first
	t.Cleanup(func() {
		close(release)
		<-done
	})
	startServer = func(*echo.Echo, string) error {
		defer close(done)
		<-release
		return http.ErrServerClosed
	}
	shutdownSignal = func(context.Context) {}

	require.NoError(t, serve(echo.New(), ":0", zap.NewNop()))
}

func TestServeHooksReadBeforeReturn(t *testing.T) {
	stubDeps(t, testConfig())
	release := make(chan struct{})
	done := make(chan string, 1)
	startServer = func(_ *echo.Echo, addr string) error {
		<-release
		done <- addr
		return http.ErrServerClosed
	}
	shutdownSignal = func(context.Context) {}

	require.NoError(t, serve(echo.New(), ":0", zap.NewNop()))

	// a hook swapped after serve returns must not reach the running server
	startServer = func(_ *echo.Echo, addr string) error {
		done <- "replaced " + addr
		return nil
	}
	close(release)
	require.Equal(t, ":0", <-done)
}

func TestMainExit(t *testing.T) {
	stubDeps(t, testConfig())
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	newPgxPool = func(context.Context, string, int32) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}

func TestMainSuccess(t *testing.T) {
	stubDeps(t, testConfig())
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	main()
	require.Equal(t, 0, exitCode)
}
