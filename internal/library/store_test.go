package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/bearthen/library/internal/assets"
	"github.com/bearthen/library/internal/database"
	"github.com/bearthen/library/internal/entities"
	"github.com/bearthen/library/internal/exporters"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quietSettings() database.Settings {
	s := database.DefaultSettings()
	s.LogLevel = logger.Silent
	return s
}

func setupStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)

	store, err := Open(filepath.Join(t.TempDir(), "library.db"), quietSettings(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func setupStoreWithAssets(t *testing.T) (*Store, *fakeClock, *assets.Dir) {
	t.Helper()
	dir, err := assets.NewDir(filepath.Join(t.TempDir(), "assets"))
	require.NoError(t, err)
	store, clock := setupStore(t, WithAssets(dir))
	return store, clock, dir
}

func addBook(t *testing.T, s *Store, book entities.Book) {
	t.Helper()
	added, err := s.AddBook(&book)
	require.NoError(t, err)
	require.True(t, added, book.ID)
}

func bookIDs(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestStore_OpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	store, err := Open(path, quietSettings())
	require.NoError(t, err)
	addBook(t, store, entities.Book{ID: "b1", Title: "One"})
	require.NoError(t, store.Close())

	store, err = Open(path, quietSettings())
	require.NoError(t, err)
	defer store.Close()

	has, err := store.HasBook("b1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStore_AddBookIdempotent(t *testing.T) {
	s, clock := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "First", ReadPercent: 0})

	clock.Advance(time.Hour)
	added, err := s.AddBook(&entities.Book{ID: "b1", Title: "Second"})
	require.NoError(t, err)
	assert.False(t, added)

	book, err := s.GetBook("b1")
	require.NoError(t, err)
	assert.Equal(t, "First", book.Title)
	assert.Equal(t, clock.now.Add(-time.Hour).Unix(), book.DateAdded)
}

func TestStore_AddBookFullRecord(t *testing.T) {
	s, _ := setupStore(t)
	eco := 0.42
	birth, death := 1812, 1870

	addBook(t, s, entities.Book{
		ID:            "gutenberg-98",
		Title:         "A Tale of Two Cities",
		AuthorID:      "gutenberg-author-37",
		AuthorDisplay: "Charles Dickens",
		CoverURL:      "https://example.org/98.jpg",
		EpubURL:       "https://example.org/98.epub",
		SourceID:      "98",
		Category:      "fiction",
		Subjects:      entities.StringList{"France -- History", "London (England)"},
		Language:      "en",
		Tags:          entities.StringList{"classic"},
		Notes:         "re-read",
		EcoScore:      &eco,
		Downloads:     12000,
		Copyright:     entities.CopyrightFree,
		BirthYear:     &birth,
		DeathYear:     &death,
	})

	book, err := s.GetBook("gutenberg-98")
	require.NoError(t, err)
	assert.Equal(t, "Charles Dickens", book.Author)
	assert.Equal(t, "https://example.org/98.jpg", book.Cover)
	assert.True(t, book.HasEpub)
	assert.Equal(t, entities.StringList{"France -- History", "London (England)"}, book.Subjects)
	assert.Equal(t, entities.StringList{"classic"}, book.Tags)
	require.NotNil(t, book.EcoScore)
	assert.InDelta(t, 0.42, *book.EcoScore, 1e-9)
	assert.Equal(t, 12000, book.Downloads)
	assert.Equal(t, entities.CopyrightFree, book.Copyright)

	author, err := s.GetAuthor("gutenberg-author-37")
	require.NoError(t, err)
	assert.Equal(t, "Dickens, Charles", author.NameSort)
	require.NotNil(t, author.BirthYear)
	assert.Equal(t, 1812, *author.BirthYear)
}

func TestStore_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.GetBook("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetAuthor("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetList("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.UpdatePosition("missing", "", 1), ErrNotFound)
	assert.ErrorIs(t, s.UpdateReadPercent("missing", 1), ErrNotFound)
	assert.ErrorIs(t, s.MarkFinished("missing"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateCoverLocal("missing", "/x"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateFilePath("missing", "/x"), ErrNotFound)
	assert.ErrorIs(t, s.RemoveBook("missing"), ErrNotFound)
}

func TestStore_EmptyResultsAreNotNil(t *testing.T) {
	s, _ := setupStore(t)

	all, err := s.GetBooks()
	require.NoError(t, err)
	assert.NotNil(t, all)
	recent, err := s.GetRecentlyRead(5)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	byCat, err := s.GetByCategory("x")
	require.NoError(t, err)
	assert.NotNil(t, byCat)
	since, err := s.GetSince(0)
	require.NoError(t, err)
	assert.NotNil(t, since)
	lists, err := s.GetLists()
	require.NoError(t, err)
	assert.NotNil(t, lists)
}

func TestStore_LastReadOnlyMovesOnPosition(t *testing.T) {
	s, clock := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One"})

	require.NoError(t, s.MarkFinished("b1"))
	require.NoError(t, s.UpdateCoverLocal("b1", "/c.jpg"))
	book, err := s.GetBook("b1")
	require.NoError(t, err)
	assert.Zero(t, book.LastRead)

	clock.Advance(time.Minute)
	require.NoError(t, s.UpdatePosition("b1", "cfi", 10))
	book, err = s.GetBook("b1")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Unix(), book.LastRead)
}

func TestStore_Lists(t *testing.T) {
	s, clock := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One"})
	addBook(t, s, entities.Book{ID: "b2", Title: "Two"})

	id, err := s.CreateList("Winter", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, s.AddToList(id, "b2"))
	require.NoError(t, s.AddToList(id, "b1"))
	require.NoError(t, s.AddToList(id, "b2"))

	list, err := s.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "b1"}, list.BookIDs)
	assert.Equal(t, clock.now.Unix(), list.UpdatedAt)
	assert.Equal(t, clock.now.Add(-time.Minute).Unix(), list.CreatedAt)

	require.NoError(t, s.RemoveFromList(id, "b2"))
	require.NoError(t, s.DeleteList(id))
	_, err = s.GetList(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveBookLeavesListEntries(t *testing.T) {
	s, _ := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One"})
	id, err := s.CreateList("L", "")
	require.NoError(t, err)
	require.NoError(t, s.AddToList(id, "b1"))

	require.NoError(t, s.RemoveBook("b1"))

	list, err := s.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, list.BookIDs)

	result, err := s.PruneOrphans()
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ListEntries)
	assert.True(t, result.AssetsSkipped)

	list, err = s.GetList(id)
	require.NoError(t, err)
	assert.Empty(t, list.BookIDs)
}

func TestStore_AssetPathsRequireDir(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.CoverPath("b1")
	assert.ErrorIs(t, err, ErrNoAssetDir)
	_, err = s.BookPath("b1")
	assert.ErrorIs(t, err, ErrNoAssetDir)
	assert.Nil(t, s.Assets())
}

func TestStore_VerifyAssets(t *testing.T) {
	s, _, dir := setupStoreWithAssets(t)

	presentCover, err := s.CoverPath("b1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(presentCover, []byte("jpg"), 0o644))

	addBook(t, s, entities.Book{ID: "b1", Title: "One", CoverURL: "https://example.org/1.jpg", CoverLocal: presentCover, FilePath: dir.BookPath("b1")})
	addBook(t, s, entities.Book{ID: "b2", Title: "Two", CoverURL: "https://example.org/2.jpg", CoverLocal: dir.CoverPath("b2")})
	addBook(t, s, entities.Book{ID: "b3", Title: "Three"})

	result, err := s.VerifyAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Checked: 2, ClearedCovers: 1, ClearedFiles: 1}, result)

	b1, err := s.GetBook("b1")
	require.NoError(t, err)
	assert.Equal(t, presentCover, b1.CoverLocal)
	assert.Empty(t, b1.FilePath)

	b2, err := s.GetBook("b2")
	require.NoError(t, err)
	assert.Empty(t, b2.CoverLocal)
	assert.Equal(t, "https://example.org/2.jpg", b2.Cover)

	// Second run finds nothing left to clear.
	result, err = s.VerifyAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Checked: 1}, result)
}

func TestStore_VerifyAssetsCancelled(t *testing.T) {
	s, _ := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One", CoverLocal: "/nowhere/cover.jpg"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.VerifyAssets(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	book, err := s.GetBook("b1")
	require.NoError(t, err)
	assert.Equal(t, "/nowhere/cover.jpg", book.CoverLocal)
}

func TestStore_PruneOrphanAssets(t *testing.T) {
	s, _, dir := setupStoreWithAssets(t)
	addBook(t, s, entities.Book{ID: "keep", Title: "Keep"})

	for _, p := range []string{dir.CoverPath("keep"), dir.CoverPath("gone"), dir.BookPath("gone")} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	result, err := s.PruneOrphans()
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssetFiles)
	assert.False(t, result.AssetsSkipped)
	assert.FileExists(t, dir.CoverPath("keep"))
	assert.NoFileExists(t, dir.CoverPath("gone"))
	assert.NoFileExists(t, dir.BookPath("gone"))
}

func TestStore_Export(t *testing.T) {
	s, clock := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One"})
	id, err := s.CreateList("L", "")
	require.NoError(t, err)
	require.NoError(t, s.AddToList(id, "b1"))

	data, err := s.ExportJSON()
	require.NoError(t, err)

	var doc exporters.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, exporters.FormatVersion, doc.Meta.Version)
	assert.Equal(t, clock.now.Unix(), doc.Meta.ExportedAt)
	assert.Equal(t, []string{"b1"}, bookIDs(doc.Books))
	require.Len(t, doc.Lists, 1)
	assert.Equal(t, []string{"b1"}, doc.Lists[0].BookIDs)
}

func TestStore_Backup(t *testing.T) {
	s, clock := setupStore(t)
	addBook(t, s, entities.Book{ID: "b1", Title: "One"})
	dir := t.TempDir()

	for i := 0; i < 3; i++ {
		_, err := s.Backup(dir, 2)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}

	paths, err := exporters.ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, exporters.BackupFilename(clock.now.Add(-time.Hour).Unix())), paths[1])
}
