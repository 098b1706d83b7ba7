// Package library is the persistence facade the reader UI talks to.
//
// A Store is constructed once at startup and passed to every collaborator
// that needs it; there is no package-level handle.
//
//	store, err := library.Open("./library.db", database.DefaultSettings(),
//		library.WithAssets(dir))
//	defer store.Close()
//
//	added, err := store.AddBook(&entities.Book{ID: "gutenberg-84", Title: "Frankenstein"})
//	err = store.UpdatePosition("gutenberg-84", "epubcfi(/6/4!/4/2/1:0)", 12)
//
// Each method runs one transaction to completion. Book and list operations
// are delegated to the repositories under internal/database.
package library

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bearthen/library/internal/assets"
	"github.com/bearthen/library/internal/database"
	"github.com/bearthen/library/internal/database/authors"
	"github.com/bearthen/library/internal/database/books"
	"github.com/bearthen/library/internal/database/lists"
	"github.com/bearthen/library/internal/entities"
)

// ErrNotFound is returned when a book, author or list does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoAssetDir is returned by operations that need an asset directory
// when the Store was built without one.
var ErrNoAssetDir = errors.New("asset directory not configured")

type Store struct {
	db      *database.Database
	books   *books.Repository
	authors *authors.Repository
	lists   *lists.Repository
	assets  *assets.Dir
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for every timestamp the store writes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithAssets attaches the asset directory used for path derivation and
// maintenance.
func WithAssets(dir *assets.Dir) Option {
	return func(s *Store) {
		s.assets = dir
	}
}

// New builds a Store on an open database.
func New(db *database.Database, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.books = books.NewRepository(db.DB, s.now)
	s.authors = authors.NewRepository(db.DB)
	s.lists = lists.NewRepository(db.DB, s.now)
	return s
}

// Open opens (creating if needed) the database at dbPath and builds a Store.
func Open(dbPath string, settings database.Settings, opts ...Option) (*Store, error) {
	db, err := database.NewDatabase(dbPath, settings)
	if err != nil {
		return nil, err
	}
	return New(db, opts...), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

// Database exposes the underlying connection wrapper.
func (s *Store) Database() *database.Database {
	return s.db
}

// Assets returns the asset directory, or nil if none was configured.
func (s *Store) Assets() *assets.Dir {
	return s.assets
}

// --- Books ---

// AddBook inserts book unless its ID is empty or already stored, in which
// case it returns false and leaves storage unchanged. Unset fields are
// defaulted on the passed value.
func (s *Store) AddBook(book *entities.Book) (bool, error) {
	added, err := s.books.AddBook(book)
	if err != nil {
		return false, fmt.Errorf("add book: %w", err)
	}
	return added, nil
}

// GetBooks returns every book, newest first.
func (s *Store) GetBooks() ([]entities.Book, error) {
	return nonNil(s.books.GetBooks())
}

func (s *Store) GetBook(id string) (*entities.Book, error) {
	book, err := s.books.GetBook(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return book, nil
}

// HasBook is false for an empty ID without touching storage.
func (s *Store) HasBook(id string) (bool, error) {
	return s.books.HasBook(id)
}

func (s *Store) UpdateCoverLocal(id, path string) error {
	return mapNotFound(s.books.UpdateCoverLocal(id, path))
}

func (s *Store) UpdateFilePath(id, path string) error {
	return mapNotFound(s.books.UpdateFilePath(id, path))
}

// UpdatePosition stores a CFI and percent and refreshes last_read.
func (s *Store) UpdatePosition(id, cfi string, percent int) error {
	return mapNotFound(s.books.UpdatePosition(id, cfi, percent))
}

func (s *Store) UpdateReadPercent(id string, percent int) error {
	return mapNotFound(s.books.UpdateReadPercent(id, percent))
}

// MarkFinished sets is_finished and forces read_percent to 100.
func (s *Store) MarkFinished(id string) error {
	return mapNotFound(s.books.MarkFinished(id))
}

// RemoveBook deletes the book row only. See PruneOrphans for cleaning up
// list entries and files it leaves behind.
func (s *Store) RemoveBook(id string) error {
	return mapNotFound(s.books.RemoveBook(id))
}

// GetRecentlyRead returns up to limit opened books (10 when limit <= 0).
func (s *Store) GetRecentlyRead(limit int) ([]entities.Book, error) {
	return nonNil(s.books.GetRecentlyRead(limit))
}

func (s *Store) GetByCategory(category string) ([]entities.Book, error) {
	return nonNil(s.books.GetByCategory(category))
}

// GetSince returns books with date_added or last_read after timestamp.
func (s *Store) GetSince(timestamp int64) ([]entities.Book, error) {
	return nonNil(s.books.GetSince(timestamp))
}

// CoverPath is where the cover for id should be downloaded to.
func (s *Store) CoverPath(id string) (string, error) {
	if s.assets == nil {
		return "", ErrNoAssetDir
	}
	return s.assets.CoverPath(id), nil
}

// BookPath is where the EPUB for id should be downloaded to.
func (s *Store) BookPath(id string) (string, error) {
	if s.assets == nil {
		return "", ErrNoAssetDir
	}
	return s.assets.BookPath(id), nil
}

// --- Authors ---

func (s *Store) GetAuthor(id string) (*entities.Author, error) {
	author, err := s.authors.GetAuthor(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return author, nil
}

// --- Reading lists ---

// GetLists returns every list, most recently updated first.
func (s *Store) GetLists() ([]entities.ReadingList, error) {
	result, err := s.lists.GetLists()
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []entities.ReadingList{}
	}
	return result, nil
}

func (s *Store) GetList(id string) (*entities.ReadingList, error) {
	list, err := s.lists.GetList(id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return list, nil
}

// CreateList returns the generated list ID.
func (s *Store) CreateList(name, description string) (string, error) {
	id, err := s.lists.CreateList(name, description)
	if err != nil {
		return "", fmt.Errorf("create list: %w", err)
	}
	return id, nil
}

// AddToList appends bookID; adding it twice is a no-op.
func (s *Store) AddToList(listID, bookID string) error {
	return s.lists.AddToList(listID, bookID)
}

func (s *Store) RemoveFromList(listID, bookID string) error {
	return s.lists.RemoveFromList(listID, bookID)
}

func (s *Store) DeleteList(listID string) error {
	return s.lists.DeleteList(listID)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func nonNil(result []entities.Book, err error) ([]entities.Book, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []entities.Book{}
	}
	return result, nil
}
