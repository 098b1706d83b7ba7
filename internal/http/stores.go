package http

import (
	"context"

	"github.com/bearthen/library/internal/entities"
	"github.com/bearthen/library/internal/exporters"
	"github.com/bearthen/library/internal/library"
)

// Each controller depends on the narrowest set of store methods it needs.
// *library.Store satisfies all of them.

// Pinger reports database connectivity.
type Pinger interface {
	Ping() error
}

// BookStore covers the book catalogue and reading progress.
type BookStore interface {
	AddBook(book *entities.Book) (bool, error)
	GetBooks() ([]entities.Book, error)
	GetBook(id string) (*entities.Book, error)
	GetByCategory(category string) ([]entities.Book, error)
	GetSince(timestamp int64) ([]entities.Book, error)
	GetRecentlyRead(limit int) ([]entities.Book, error)
	UpdatePosition(id, cfi string, percent int) error
	UpdateReadPercent(id string, percent int) error
	MarkFinished(id string) error
	UpdateCoverLocal(id, path string) error
	UpdateFilePath(id, path string) error
	RemoveBook(id string) error
}

// AuthorGetter provides read access to authors.
type AuthorGetter interface {
	GetAuthor(id string) (*entities.Author, error)
}

// ListStore covers user reading lists.
type ListStore interface {
	GetLists() ([]entities.ReadingList, error)
	GetList(id string) (*entities.ReadingList, error)
	CreateList(name, description string) (string, error)
	AddToList(listID, bookID string) error
	RemoveFromList(listID, bookID string) error
	DeleteList(listID string) error
}

// Exporter renders the whole library as a JSON document.
type Exporter interface {
	ExportJSON() ([]byte, error)
}

// Maintainer runs the explicit cleanup operations.
type Maintainer interface {
	VerifyAssets(ctx context.Context) (library.VerifyResult, error)
	PruneOrphans() (library.PruneResult, error)
}

// BackupRunner triggers an immediate backup.
type BackupRunner interface {
	RunNow() (exporters.ExportResult, error)
}

var (
	_ Pinger       = (*library.Store)(nil)
	_ BookStore    = (*library.Store)(nil)
	_ AuthorGetter = (*library.Store)(nil)
	_ ListStore    = (*library.Store)(nil)
	_ Exporter     = (*library.Store)(nil)
	_ Maintainer   = (*library.Store)(nil)
)
