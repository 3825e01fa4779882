// Package server assembles the ledger service: storage, token bookkeeping,
// receipt archiving and the REST and gRPC listeners, with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"github.com/dmitrijs2005/gophwallet/internal/server/httpapi"
	"github.com/dmitrijs2005/gophwallet/internal/server/receipts"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
	"github.com/dmitrijs2005/gophwallet/internal/server/tokenstore"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	gs "github.com/dmitrijs2005/gophwallet/internal/server/grpc"
)

const redisPingTimeout = 2 * time.Second

type App struct {
	config    *config.Config
	zap       *zap.Logger
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	redis     *redis.Client
	endpoints *endpoints.Endpoints
}

func newZapLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	zl, err := newZapLogger(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	app := &App{config: c, zap: zl, logger: logging.NewZapLogger(zl)}

	if app.repos, err = app.openRepositories(ctx); err != nil {
		return nil, err
	}

	used, limiter, err := app.openTokenStores(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	archive, err := app.openArchive(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	ledger := services.NewLedger(services.Deps{
		Repos:       app.repos,
		Issuer:      auth.NewIssuer([]byte(c.SecretKey), c.OperationTokenTTL, c.SessionTokenTTL),
		Codes:       auth.NewTOTP(c.TOTPIssuer),
		UsedTokens:  used,
		Limiter:     limiter,
		Archive:     archive,
		SignupAward: c.SignupAward,
		Logger:      app.logger,
	})
	app.endpoints = endpoints.New(ledger)

	return app, nil
}

func (app *App) openRepositories(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "No database DSN configured, accounts are kept in memory")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	rm := repomanager.NewPostgresRepositoryManager(db)
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return rm, nil
}

func (app *App) openTokenStores(ctx context.Context) (tokenstore.UsedTokens, tokenstore.AttemptLimiter, error) {
	c := app.config
	if c.RedisAddr == "" {
		return tokenstore.NewMemoryUsedTokens(), tokenstore.NewMemoryLimiter(c.AttemptWindow, c.MaxCodeAttempts), nil
	}

	app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis init error: %w", err)
	}
	return tokenstore.NewRedisUsedTokens(app.redis), tokenstore.NewRedisLimiter(app.redis, c.AttemptWindow, c.MaxCodeAttempts), nil
}

func (app *App) openArchive(ctx context.Context) (receipts.Archive, error) {
	c := app.config
	if c.S3Bucket == "" {
		return receipts.Nop(), nil
	}
	a, err := receipts.NewS3Archive(ctx, receipts.Settings{
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return a, nil
}

func (app *App) close() {
	if app.repos != nil {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "closing storage", "error", err)
		}
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.zap.Sync()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.endpoints)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(app.zap.With(zap.String("module", "http")), app.endpoints)

	s := httpapi.NewServer(app.config.HTTPAddr, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a signal arrives or a
// listener fails, then releases storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	if app.config.HTTPAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	app.close()
}
