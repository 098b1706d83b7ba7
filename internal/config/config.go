package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Assets
		Migrations
		Backup
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path         string
		MaxOpenConns int
		BusyTimeout  time.Duration
		LogLevel     string // silent, error, warn, info
	}
	Assets struct {
		Dir string // Flat directory holding cover_<id>.jpg and book_<id>.epub
	}
	Migrations struct {
		// Extra legacy asset path patterns, "column:fragment", cleared on every start
		LegacyPathPatterns []string
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Keep     int // Number of newest backups to keep, 0 keeps all
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_max_open_conns", 1)
	v.SetDefault("database_busy_timeout", "5s")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("assets_dir", DefaultAssetsDir)
	v.SetDefault("legacy_path_patterns", "")

	// Backup defaults
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_keep", 7)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:         v.GetString("DATABASE_PATH"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			BusyTimeout:  v.GetDuration("DATABASE_BUSY_TIMEOUT"),
			LogLevel:     v.GetString("DATABASE_LOG_LEVEL"),
		},
		Assets: Assets{
			Dir: v.GetString("ASSETS_DIR"),
		},
		Migrations: Migrations{
			LegacyPathPatterns: splitList(v.GetString("LEGACY_PATH_PATTERNS")),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// splitList splits a comma-separated env value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
