// Package books provides database operations for library books and
// reading progress.
//
// # Usage
//
//	repo := books.NewRepository(db, time.Now)
//	added, err := repo.AddBook(&entities.Book{ID: "gutenberg-84", Title: "Frankenstein"})
package books

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/bearthen/library/internal/database/authors"
	"github.com/bearthen/library/internal/entities"
)

// DefaultRecentLimit is used by GetRecentlyRead when no positive limit is given.
const DefaultRecentLimit = 10

// ErrInvalidPercent is returned for reading progress outside 0..100.
var ErrInvalidPercent = errors.New("read percent must be between 0 and 100")

const newestFirst = "date_added DESC, rowid DESC"

// Repository handles all book database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new books repository. now supplies the timestamps
// written to date_added and last_read; nil means time.Now.
func NewRepository(db *gorm.DB, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{db: db, now: now}
}

// AddBook inserts a new book. It never overwrites: if a book with the same
// ID exists (or the ID is empty) it returns false and changes nothing.
// When the book carries both an author ID and a display name the author
// record is created in the same transaction if it does not exist yet.
func (r *Repository) AddBook(book *entities.Book) (bool, error) {
	if book == nil || book.ID == "" {
		return false, nil
	}

	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("Library: book %s already exists, not adding", book.ID)
			return nil
		}

		book.ApplyDefaults(r.now().Unix())
		if err := tx.Create(book).Error; err != nil {
			return err
		}

		if book.AuthorID != "" && book.AuthorDisplay != "" {
			if _, err := authors.EnsureAuthor(tx, book.AuthorID, book.AuthorDisplay, book.BirthYear, book.DeathYear); err != nil {
				return fmt.Errorf("ensure author %s: %w", book.AuthorID, err)
			}
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if added {
		log.Printf("Library: added book %s", book.ID)
	}
	return added, nil
}

// GetBooks returns every book, newest first.
func (r *Repository) GetBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order(newestFirst).Find(&books).Error
	return books, err
}

// GetBook retrieves a book by ID.
func (r *Repository) GetBook(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// HasBook reports whether a book exists. Empty IDs are never looked up.
func (r *Repository) HasBook(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateCoverLocal records where the cover image was saved.
// The file itself is not checked.
func (r *Repository) UpdateCoverLocal(id, path string) error {
	return r.updateColumns(id, map[string]any{"cover_local": path})
}

// UpdateFilePath records where the EPUB was saved.
// The file itself is not checked.
func (r *Repository) UpdateFilePath(id, path string) error {
	return r.updateColumns(id, map[string]any{"file_path": path})
}

// UpdatePosition stores the reading location and progress and stamps
// last_read with the current time. It is the only writer of last_read.
func (r *Repository) UpdatePosition(id, cfi string, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidPercent, percent)
	}
	return r.updateColumns(id, map[string]any{
		"read_position": cfi,
		"read_percent":  percent,
		"last_read":     r.now().Unix(),
	})
}

// UpdateReadPercent is UpdatePosition without a location token.
func (r *Repository) UpdateReadPercent(id string, percent int) error {
	return r.UpdatePosition(id, "", percent)
}

// MarkFinished flags the book as finished and forces progress to 100%.
func (r *Repository) MarkFinished(id string) error {
	return r.updateColumns(id, map[string]any{
		"is_finished":  true,
		"read_percent": 100,
	})
}

// RemoveBook deletes the book row. List entries and asset files that
// reference it are left in place.
func (r *Repository) RemoveBook(id string) error {
	result := r.db.Where("id = ?", id).Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetRecentlyRead returns books that have been opened, most recent first.
func (r *Repository) GetRecentlyRead(limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var books []entities.Book
	err := r.db.Where("last_read > 0").Order("last_read DESC").Limit(limit).Find(&books).Error
	return books, err
}

// GetByCategory returns books in exactly the given category, newest first.
func (r *Repository) GetByCategory(category string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("category = ?", category).Order(newestFirst).Find(&books).Error
	return books, err
}

// GetSince returns books added or read after the given Unix timestamp.
func (r *Repository) GetSince(timestamp int64) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("date_added > ? OR last_read > ?", timestamp, timestamp).
		Order(newestFirst).
		Find(&books).Error
	return books, err
}

// AssetRef is the subset of a book row describing its local files.
type AssetRef struct {
	ID         string
	CoverLocal string
	FilePath   string
}

// GetAssetRefs returns every book that has at least one local asset path.
func (r *Repository) GetAssetRefs() ([]AssetRef, error) {
	var refs []AssetRef
	err := r.db.Model(&entities.Book{}).
		Select("id, cover_local, file_path").
		Where("cover_local <> '' OR file_path <> ''").
		Order("id ASC").
		Scan(&refs).Error
	return refs, err
}

// GetIDs returns the ID of every stored book.
func (r *Repository) GetIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&entities.Book{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) updateColumns(id string, fields map[string]any) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearAssetPaths empties cover_local for coverIDs and file_path for fileIDs
// in one transaction.
func (r *Repository) ClearAssetPaths(coverIDs, fileIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(coverIDs) > 0 {
			err := tx.Model(&entities.Book{}).Where("id IN ?", coverIDs).Update("cover_local", "").Error
			if err != nil {
				return err
			}
		}
		if len(fileIDs) > 0 {
			err := tx.Model(&entities.Book{}).Where("id IN ?", fileIDs).Update("file_path", "").Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
