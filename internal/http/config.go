package http

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies, usually all the same *library.Store
	Database    Pinger
	Books       BookStore
	Authors     AuthorGetter
	Lists       ListStore
	Exporter    Exporter
	Maintenance Maintainer

	// Optional. Without a queue maintenance runs inline; without a
	// backup runner POST /api/maintenance/backup answers 503.
	TaskQueue TaskQueue
	Backups   BackupRunner

	// AssetsDir is checked by /health; empty when no asset directory is set.
	AssetsDir string

	// Application info
	Version string
}
