// Package assets manages the flat directory holding downloaded covers and
// book bodies. Files are named cover_<bookID>.jpg and book_<bookID>.epub;
// no subdirectories are ever created.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	coverPrefix = "cover_"
	coverExt    = ".jpg"
	bookPrefix  = "book_"
	bookExt     = ".epub"
)

// Kind identifies which asset a file holds.
type Kind string

const (
	KindCover Kind = "cover"
	KindBook  Kind = "book"
)

// Dir is the asset directory.
type Dir struct {
	root string
}

// NewDir creates the asset directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Dir{root: filepath.Clean(root)}, nil
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

// CoverPath returns where the cover for bookID lives.
func (d *Dir) CoverPath(bookID string) string {
	return d.root + "/" + coverPrefix + bookID + coverExt
}

// BookPath returns where the EPUB for bookID lives.
func (d *Dir) BookPath(bookID string) string {
	return d.root + "/" + bookPrefix + bookID + bookExt
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveBookAssets deletes the cover and EPUB for bookID. Missing files are
// not an error. Returns how many files were removed.
func (d *Dir) RemoveBookAssets(bookID string) (int, error) {
	removed := 0
	for _, path := range []string{d.CoverPath(bookID), d.BookPath(bookID)} {
		err := os.Remove(path)
		if err == nil {
			removed++
			continue
		}
		if !os.IsNotExist(err) {
			return removed, err
		}
	}
	return removed, nil
}

// Asset is one file found in the directory.
type Asset struct {
	BookID string
	Kind   Kind
	Path   string
}

// List returns every cover and EPUB in the directory, sorted by path.
// Files not following the naming scheme are ignored.
func (d *Dir) List() ([]Asset, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}

	var found []Asset
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if id, ok := parseName(name, coverPrefix, coverExt); ok {
			found = append(found, Asset{BookID: id, Kind: KindCover, Path: filepath.Join(d.root, name)})
		} else if id, ok := parseName(name, bookPrefix, bookExt); ok {
			found = append(found, Asset{BookID: id, Kind: KindBook, Path: filepath.Join(d.root, name)})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func parseName(name, prefix, ext string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
	return id, id != ""
}
