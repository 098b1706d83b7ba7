// Package lists provides database operations for user reading lists.
//
// # Usage
//
//	repo := lists.NewRepository(db, time.Now)
//	id, err := repo.CreateList("Summer", "")
//	err = repo.AddToList(id, "gutenberg-84")
package lists

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bearthen/library/internal/entities"
)

// IDPrefix starts every generated reading list ID.
const IDPrefix = "list-"

// Repository handles reading list database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new lists repository. nil now means time.Now.
func NewRepository(db *gorm.DB, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{db: db, now: now}
}

// NewListID returns "list-" followed by a random suffix.
func NewListID() string {
	return IDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// GetLists returns all lists, most recently updated first, each with its
// book IDs in insertion order.
func (r *Repository) GetLists() ([]entities.ReadingList, error) {
	var result []entities.ReadingList
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("updated_at DESC, rowid DESC").Find(&result).Error; err != nil {
			return err
		}
		if len(result) == 0 {
			return nil
		}

		ids := make([]string, len(result))
		for i := range result {
			ids[i] = result[i].ID
		}

		var entries []entities.ReadingListEntry
		err := tx.Where("list_id IN ?", ids).
			Order("list_id ASC, position ASC").
			Find(&entries).Error
		if err != nil {
			return err
		}

		byList := make(map[string][]string, len(result))
		for _, e := range entries {
			byList[e.ListID] = append(byList[e.ListID], e.BookID)
		}
		for i := range result {
			result[i].BookIDs = byList[result[i].ID]
			if result[i].BookIDs == nil {
				result[i].BookIDs = []string{}
			}
		}
		return nil
	})
	return result, err
}

// GetList retrieves one list with its book IDs.
func (r *Repository) GetList(id string) (*entities.ReadingList, error) {
	var list entities.ReadingList
	if err := r.db.Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	list.BookIDs = []string{}
	err := r.db.Model(&entities.ReadingListEntry{}).
		Where("list_id = ?", id).
		Order("position ASC").
		Pluck("book_id", &list.BookIDs).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateList creates an empty list and returns its generated ID.
func (r *Repository) CreateList(name, description string) (string, error) {
	now := r.now().Unix()
	list := &entities.ReadingList{
		ID:          NewListID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.Create(list).Error; err != nil {
		return "", err
	}
	return list.ID, nil
}

// AddToList appends a book to a list. Adding a book that is already in the
// list keeps its original position. The list's updated_at is touched either
// way.
func (r *Repository) AddToList(listID, bookID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next int
		err := tx.Model(&entities.ReadingListEntry{}).
			Select("COALESCE(MAX(position), -1) + 1").
			Where("list_id = ?", listID).
			Row().Scan(&next)
		if err != nil {
			return err
		}

		entry := &entities.ReadingListEntry{ListID: listID, BookID: bookID, Position: next}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
			return err
		}

		return tx.Model(&entities.ReadingList{}).
			Where("id = ?", listID).
			Update("updated_at", r.now().Unix()).Error
	})
}

// RemoveFromList deletes one entry. Remaining positions are not compacted
// and updated_at is not touched.
func (r *Repository) RemoveFromList(listID, bookID string) error {
	return r.db.Where("list_id = ? AND book_id = ?", listID, bookID).
		Delete(&entities.ReadingListEntry{}).Error
}

// DeleteList removes a list and all of its entries.
func (r *Repository) DeleteList(listID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&entities.ReadingListEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", listID).Delete(&entities.ReadingList{}).Error
	})
}

// DeleteOrphanEntries removes entries whose book no longer exists.
func (r *Repository) DeleteOrphanEntries() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM reading_list_entries_tb
		WHERE book_id NOT IN (SELECT id FROM books_tb)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
