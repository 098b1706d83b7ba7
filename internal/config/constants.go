package config

// Default locations, relative to the working directory
const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./bearthen.db"

	// DefaultAssetsDir holds downloaded covers and EPUBs, flat
	DefaultAssetsDir = "./assets"

	// DefaultBackupDir receives scheduled JSON exports
	DefaultBackupDir = "./backups"
)
