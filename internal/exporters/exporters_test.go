package exporters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bearthen/library/internal/entities"
)

func TestNewDocument_NonNilCollections(t *testing.T) {
	doc := NewDocument(nil, nil, 123)

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"meta":{"version":2,"exported_at":123},"books":[],"lists":[]}`, string(data))
	assert.Contains(t, string(data), "\n  \"meta\"")
}

func TestDocument_RoundTrip(t *testing.T) {
	books := []entities.Book{{ID: "b1", Title: "One", Subjects: entities.StringList{"x"}, Copyright: entities.CopyrightProtected}}
	lists := []entities.ReadingList{{ID: "list-1", Name: "L", BookIDs: []string{"b1"}}}

	data, err := NewDocument(books, lists, 5).Marshal()
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FormatVersion, decoded.Meta.Version)
	assert.Equal(t, "b1", decoded.Books[0].ID)
	assert.Equal(t, entities.CopyrightProtected, decoded.Books[0].Copyright)
	assert.Equal(t, []string{"b1"}, decoded.Lists[0].BookIDs)
}

func TestWriteBackup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	doc := NewDocument([]entities.Book{{ID: "b1"}}, nil, 1_700_000_000)

	result, err := WriteBackup(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "library-1700000000.json"), result.Path)
	assert.Equal(t, 1, result.BooksProcessed)
	assert.Equal(t, 0, result.ListsProcessed)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, result.Bytes, len(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestListAndPruneBackups(t *testing.T) {
	dir := t.TempDir()
	for _, ts := range []int64{999, 1000, 20, 1500} {
		_, err := WriteBackup(dir, NewDocument(nil, nil, ts))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := ListBackups(dir)
	require.NoError(t, err)
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"library-20.json", "library-999.json", "library-1000.json", "library-1500.json"}, names)

	removed, err := PruneBackups(dir, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = PruneBackups(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	paths, err = ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "library-1000.json", filepath.Base(paths[0]))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestListBackups_MissingDir(t *testing.T) {
	paths, err := ListBackups(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
