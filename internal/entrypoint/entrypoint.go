package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/bearthen/library/internal/assets"
	"github.com/bearthen/library/internal/config"
	"github.com/bearthen/library/internal/database"
	http_controllers "github.com/bearthen/library/internal/http"
	"github.com/bearthen/library/internal/library"
	"github.com/bearthen/library/internal/scheduler"
	"github.com/bearthen/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// DatabaseSettings converts the environment configuration into
// database.Settings, validating extra legacy path patterns.
func DatabaseSettings(cfg *config.Config) (database.Settings, error) {
	settings := database.DefaultSettings()
	if cfg.Database.MaxOpenConns > 0 {
		settings.MaxOpenConns = cfg.Database.MaxOpenConns
	}
	if cfg.Database.BusyTimeout > 0 {
		settings.BusyTimeout = cfg.Database.BusyTimeout
	}

	level, err := parseLogLevel(cfg.Database.LogLevel)
	if err != nil {
		return settings, err
	}
	settings.LogLevel = level

	for _, raw := range cfg.Migrations.LegacyPathPatterns {
		pattern, err := database.ParsePathPattern(raw)
		if err != nil {
			return settings, fmt.Errorf("LEGACY_PATH_PATTERNS: %w", err)
		}
		settings.ExtraPathPatterns = append(settings.ExtraPathPatterns, pattern)
	}
	return settings, nil
}

func parseLogLevel(s string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "", "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	default:
		return logger.Warn, fmt.Errorf("unknown database log level %q", s)
	}
}

// OpenStore opens the library at cfg.Database.Path with the configured asset
// directory attached.
func OpenStore(cfg *config.Config) (*library.Store, error) {
	settings, err := DatabaseSettings(cfg)
	if err != nil {
		return nil, err
	}

	var opts []library.Option
	if cfg.Assets.Dir != "" {
		dir, err := assets.NewDir(cfg.Assets.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize asset directory: %w", err)
		}
		opts = append(opts, library.WithAssets(dir))
		log.Printf("Asset directory initialized at %s", dir.Root())
	}

	store, err := library.Open(cfg.Database.Path, settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	log.Printf("Starting library v%s", version)

	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Database:    store,
		Books:       store,
		Authors:     store,
		Lists:       store,
		Exporter:    store,
		Maintenance: store,
		Version:     version,
	}
	if dir := store.Assets(); dir != nil {
		routerCfg.AssetsDir = dir.Root()
	}

	// Task queue for maintenance jobs
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewVerifyAssetsQueue(store),
			tasks.NewPruneOrphansQueue(store),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		routerCfg.TaskQueue = taskClient

		// Catch files deleted while the app was not running
		if _, err := taskClient.Enqueue(tasks.VerifyAssetsTask{Reason: "startup"}); err != nil {
			log.Printf("WARNING: could not enqueue startup asset check: %v", err)
		}
	} else {
		log.Printf("Task queue disabled, maintenance endpoints run inline")
	}

	// Periodic backups
	backups := scheduler.NewBackupScheduler(store, scheduler.BackupConfig{
		Enabled:  cfg.Backup.Enabled,
		Schedule: cfg.Backup.Schedule,
		Dir:      cfg.Backup.Dir,
		Keep:     cfg.Backup.Keep,
	})
	if err := backups.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start backup scheduler: %w", err)
	}
	if cfg.Backup.Dir != "" {
		routerCfg.Backups = backups
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backups.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, onShutdown)
}
