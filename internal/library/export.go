package library

import (
	"fmt"

	"github.com/bearthen/library/internal/exporters"
)

// Export takes a read-only snapshot of all books and lists.
func (s *Store) Export() (exporters.Document, error) {
	allBooks, err := s.GetBooks()
	if err != nil {
		return exporters.Document{}, fmt.Errorf("export books: %w", err)
	}
	allLists, err := s.GetLists()
	if err != nil {
		return exporters.Document{}, fmt.Errorf("export lists: %w", err)
	}
	return exporters.NewDocument(allBooks, allLists, s.now().Unix()), nil
}

// ExportJSON renders Export as indented JSON:
//
//	{"meta": {"version": 2, "exported_at": ...}, "books": [...], "lists": [...]}
func (s *Store) ExportJSON() ([]byte, error) {
	doc, err := s.Export()
	if err != nil {
		return nil, err
	}
	return doc.Marshal()
}

// Backup writes an export into dir and keeps only the newest keep files
// (all of them when keep <= 0).
func (s *Store) Backup(dir string, keep int) (exporters.ExportResult, error) {
	doc, err := s.Export()
	if err != nil {
		return exporters.ExportResult{}, err
	}
	result, err := exporters.WriteBackup(dir, doc)
	if err != nil {
		return exporters.ExportResult{}, fmt.Errorf("write backup: %w", err)
	}
	if _, err := exporters.PruneBackups(dir, keep); err != nil {
		return result, fmt.Errorf("prune backups: %w", err)
	}
	return result, nil
}
