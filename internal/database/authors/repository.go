// Package authors provides database operations for author records.
//
// Authors are never created directly: books.Repository.AddBook calls
// EnsureAuthor inside its own transaction the first time a book references
// an author id.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetAuthor("gutenberg-author-68")
package authors

import (
	"gorm.io/gorm"

	"github.com/bearthen/library/internal/entities"
)

// Repository handles author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAuthor retrieves an author by ID.
func (r *Repository) GetAuthor(id string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Where("id = ?", id).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// EnsureAuthor inserts an author unless one with the same ID exists.
// Existing records are left untouched. Reports whether a row was created.
func EnsureAuthor(tx *gorm.DB, id, displayName string, birthYear, deathYear *int) (bool, error) {
	var count int64
	if err := tx.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	author := &entities.Author{
		ID:          id,
		NameDisplay: displayName,
		NameSort:    entities.SortName(displayName),
		BirthYear:   birthYear,
		DeathYear:   deathYear,
	}
	if err := tx.Create(author).Error; err != nil {
		return false, err
	}
	return true, nil
}
