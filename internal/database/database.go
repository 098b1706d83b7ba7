package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bearthen/library/internal/entities"
)

// Settings tunes how the library database is opened.
type Settings struct {
	// MaxOpenConns caps the connection pool. One connection serializes every
	// transaction in-process, which the list position logic relies on.
	MaxOpenConns int

	// BusyTimeout is how long SQLite waits on a locked database file.
	BusyTimeout time.Duration

	// LogLevel for GORM's SQL logger.
	LogLevel logger.LogLevel

	// ExtraPathPatterns are legacy asset path fragments cleared on every open,
	// in addition to the built-in patterns applied once by migration 1.
	ExtraPathPatterns []PathPattern
}

// DefaultSettings returns Settings suitable for a single-user local store.
func DefaultSettings() Settings {
	return Settings{
		MaxOpenConns: 1,
		BusyTimeout:  5 * time.Second,
		LogLevel:     logger.Warn,
	}
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string, settings Settings) (*Database, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", dbPath, settings.BusyTimeout.Milliseconds())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(settings.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if settings.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(settings.MaxOpenConns)
		sqlDB.SetMaxIdleConns(settings.MaxOpenConns)
	}

	// Tables are created idempotently on every open.
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Author{},
		&entities.ReadingList{},
		&entities.ReadingListEntry{},
		&entities.SchemaVersion{},
	)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.applyMigrations(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if len(settings.ExtraPathPatterns) > 0 {
		database.clearPathPatterns(database.DB, settings.ExtraPathPatterns)
	}

	log.Printf("Library: database ready at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
