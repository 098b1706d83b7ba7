package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bearthen/library/internal/entities"
)

// PathPattern matches stale asset paths left behind by older builds that
// wrote covers and books into subdirectories.
type PathPattern struct {
	Column   string // cover_local or file_path
	Fragment string // matched as LIKE '%<fragment>%'
}

// LegacyPathPatterns are the layouts used before assets moved into one flat
// directory. Any path containing them points at a file that no longer exists.
var LegacyPathPatterns = []PathPattern{
	{Column: "cover_local", Fragment: "/covers/"},
	{Column: "cover_local", Fragment: "/QML/OfflineStorage/"},
	{Column: "file_path", Fragment: "/books/"},
	{Column: "file_path", Fragment: "/QML/OfflineStorage/"},
}

var assetColumns = map[string]bool{
	"cover_local": true,
	"file_path":   true,
}

// ParsePathPattern parses "column:fragment", e.g. "file_path:/old/books/".
func ParsePathPattern(s string) (PathPattern, error) {
	column, fragment, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || fragment == "" {
		return PathPattern{}, fmt.Errorf("invalid path pattern %q: want column:fragment", s)
	}
	if !assetColumns[column] {
		return PathPattern{}, fmt.Errorf("invalid path pattern %q: unknown column %s", s, column)
	}
	return PathPattern{Column: column, Fragment: fragment}, nil
}

type migration struct {
	version int
	name    string
	up      func(d *Database, tx *gorm.DB) error
}

// migrations run in order, each at most once per database.
var migrations = []migration{
	{
		version: 1,
		name:    "clear_stale_asset_paths",
		up: func(d *Database, tx *gorm.DB) error {
			d.clearPathPatterns(tx, LegacyPathPatterns)
			return nil
		},
	},
}

func (d *Database) applyMigrations() error {
	var applied []int
	if err := d.DB.Model(&entities.SchemaVersion{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("failed to read schema versions: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}
		err := d.DB.Transaction(func(tx *gorm.DB) error {
			if err := m.up(d, tx); err != nil {
				return err
			}
			return tx.Create(&entities.SchemaVersion{
				Version:   m.version,
				Name:      m.name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("Library: applied migration %d (%s)", m.version, m.name)
	}
	return nil
}

// AppliedVersions lists the migration versions recorded in this database.
func (d *Database) AppliedVersions() ([]int, error) {
	var versions []int
	err := d.DB.Model(&entities.SchemaVersion{}).Order("version ASC").Pluck("version", &versions).Error
	return versions, err
}

// clearPathPatterns resets matching asset paths to empty so readers fall
// back to the remote URL. Failures are logged and ignored: an older or
// already-migrated schema must not block startup.
func (d *Database) clearPathPatterns(tx *gorm.DB, patterns []PathPattern) {
	for _, p := range patterns {
		if !assetColumns[p.Column] {
			log.Printf("Library: skipping path pattern on unknown column %q", p.Column)
			continue
		}
		result := tx.Model(&entities.Book{}).
			Where(p.Column+" LIKE ?", "%"+p.Fragment+"%").
			Update(p.Column, "")
		if result.Error != nil {
			log.Printf("Library: clearing %s LIKE %q failed: %v", p.Column, p.Fragment, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("Library: cleared %d stale %s values matching %q", result.RowsAffected, p.Column, p.Fragment)
		}
	}
}
