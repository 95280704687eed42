// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/cache"
	"github.com/dmitrijs2005/biscotto/internal/server/config"
	"github.com/dmitrijs2005/biscotto/internal/server/httpapi"
	"github.com/dmitrijs2005/biscotto/internal/server/images"
	"github.com/dmitrijs2005/biscotto/internal/server/jobs"
	"github.com/dmitrijs2005/biscotto/internal/server/notify"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/biscotto/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/biscotto/internal/server/grpc"
)

const (
	startupTimeout = 30 * time.Second
	imageTimeout   = 30 * time.Second
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	cache           *cache.Cache
	userService     *services.UserService
	productService  *services.ProductService
	settingsService *services.SettingsService
	assetService    *services.AssetService
	jwtConfigured   bool
}

// NewApp connects to the database, applies migrations and builds services.
// Any failure here is fatal for the process.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	jwtConfigured := c.SecretKey != ""
	if err := ensureSecret(c); err != nil {
		return nil, fmt.Errorf("jwt secret error: %w", err)
	}
	if !jwtConfigured {
		logger.Warn(context.Background(), "JWT secret not configured, issued tokens will not survive a restart")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := images.NewS3Store(ctx, images.Options{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		PublicURL:    c.S3PublicURL,
		Timeout:      imageTimeout,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	rc, err := cache.Open(ctx, c.RedisAddr, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	as := services.NewAssetService(db, rm, store, logger)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		cache:           rc,
		userService:     services.NewUserService(db, rm, newNotifier(c, logger), logger, c),
		productService:  services.NewProductService(db, rm, store, as, logger),
		settingsService: services.NewSettingsService(db, rm, logger),
		assetService:    as,
		jwtConfigured:   jwtConfigured,
	}, nil
}

// ensureSecret fills an empty signing secret with a random one outside
// production. Production must be given a secret explicitly.
func ensureSecret(c *config.Config) error {
	if c.SecretKey != "" {
		return nil
	}
	if c.IsProduction() {
		return errors.New("JWT_SECRET is required in production")
	}
	s, err := common.MakeRandHexString(32)
	if err != nil {
		return err
	}
	c.SecretKey = s
	return nil
}

func newNotifier(c *config.Config, l logging.Logger) notify.Notifier {
	if c.Notifier == config.NotifierSMTP {
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			User:     c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.SMTPFrom,
		})
	}
	return notify.NewDemoNotifier(l)
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

// seed creates the settings documents and the default admin if missing.
func (app *App) seed(ctx context.Context) error {
	if err := app.settingsService.EnsureDefaults(ctx); err != nil {
		return err
	}
	return app.userService.EnsureAdmin(ctx, app.config.AdminEmail, app.config.AdminPassword)
}

func (app *App) router() *httpapi.API {
	c := app.config
	return httpapi.New(app.userService, app.productService, app.settingsService, httpapi.Options{
		Production:  c.IsProduction(),
		FrontendURL: c.FrontendURL,
		Env: httpapi.EnvStatus{
			S3:       c.S3AccessKey != "" && c.S3Bucket != "",
			Database: c.DatabaseDSN != "",
			JWT:      app.jwtConfigured,
		},
		Limiter: cache.NewRateLimiter(app.cache.Client(), "ratelimit:", c.RateLimitPerMinute, time.Minute),
	}, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.router().Router(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext, gs.DefaultProbeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startScheduler(ctx context.Context, cancelFunc context.CancelFunc) {
	sch := jobs.NewScheduler(app.logger)
	if err := sch.Add(app.config.OrphanSweepSchedule, jobs.NewOrphanSweepJob(ctx, app.assetService, app.logger)); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}
	sch.Run(ctx)
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.seed(ctx); err != nil {
		return fmt.Errorf("seeding error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startScheduler(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	return nil
}

func (app *App) close() {
	ctx := context.Background()
	if err := app.cache.Close(); err != nil {
		app.logger.Warn(ctx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
