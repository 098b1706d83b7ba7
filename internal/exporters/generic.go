package exporters

import (
	"encoding/json"

	"github.com/bearthen/library/internal/entities"
)

// FormatVersion is written to meta.version of every export.
const FormatVersion = 2

// Meta describes an export document.
type Meta struct {
	Version    int   `json:"version"`
	ExportedAt int64 `json:"exported_at"`
}

// Document is the backup/sync interchange format: a full snapshot of books
// and reading lists.
type Document struct {
	Meta  Meta                   `json:"meta"`
	Books []entities.Book        `json:"books"`
	Lists []entities.ReadingList `json:"lists"`
}

// NewDocument builds a document stamped with exportedAt (Unix seconds).
func NewDocument(books []entities.Book, lists []entities.ReadingList, exportedAt int64) Document {
	if books == nil {
		books = []entities.Book{}
	}
	if lists == nil {
		lists = []entities.ReadingList{}
	}
	return Document{
		Meta:  Meta{Version: FormatVersion, ExportedAt: exportedAt},
		Books: books,
		Lists: lists,
	}
}

// Marshal renders the document as JSON indented by two spaces.
func (d Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

type ExportResult struct {
	Path           string `json:"path"`
	BooksProcessed int    `json:"books_processed"`
	ListsProcessed int    `json:"lists_processed"`
	Bytes          int    `json:"bytes"`
}
