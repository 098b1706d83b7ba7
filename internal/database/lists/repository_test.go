package lists

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bearthen/library/internal/entities"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, *fakeClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "lists.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}, &entities.ReadingList{}, &entities.ReadingListEntry{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewRepository(db, clock.Now), db, clock
}

func entries(t *testing.T, db *gorm.DB, listID string) []entities.ReadingListEntry {
	t.Helper()
	var out []entities.ReadingListEntry
	require.NoError(t, db.Where("list_id = ?", listID).Order("position ASC").Find(&out).Error)
	return out
}

func TestNewListID(t *testing.T) {
	a, b := NewListID(), NewListID()
	assert.Regexp(t, `^list-[0-9a-f]{12}$`, a)
	assert.NotEqual(t, a, b)
}

func TestRepository_CreateList(t *testing.T) {
	repo, _, clock := setupTestDB(t)

	id, err := repo.CreateList("Summer", "beach reads")
	require.NoError(t, err)

	list, err := repo.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, "Summer", list.Name)
	assert.Equal(t, "beach reads", list.Description)
	assert.Equal(t, clock.now.Unix(), list.CreatedAt)
	assert.Equal(t, clock.now.Unix(), list.UpdatedAt)
	assert.NotNil(t, list.BookIDs)
	assert.Empty(t, list.BookIDs)
}

func TestRepository_AddToList_Positions(t *testing.T) {
	repo, db, _ := setupTestDB(t)
	id, err := repo.CreateList("L", "")
	require.NoError(t, err)

	require.NoError(t, repo.AddToList(id, "b1"))
	require.NoError(t, repo.AddToList(id, "b2"))
	require.NoError(t, repo.AddToList(id, "b3"))

	got := entries(t, db, id)
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, 1, got[1].Position)
	assert.Equal(t, 2, got[2].Position)
}

func TestRepository_AddToList_Duplicate(t *testing.T) {
	repo, db, clock := setupTestDB(t)
	id, err := repo.CreateList("L", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddToList(id, "b1"))
	require.NoError(t, repo.AddToList(id, "b2"))

	clock.Advance(time.Hour)
	require.NoError(t, repo.AddToList(id, "b1"))

	got := entries(t, db, id)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].BookID)
	assert.Equal(t, 0, got[0].Position)

	list, err := repo.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Unix(), list.UpdatedAt)
}

func TestRepository_RemoveFromList_NoCompaction(t *testing.T) {
	repo, db, clock := setupTestDB(t)
	id, err := repo.CreateList("L", "")
	require.NoError(t, err)
	for _, b := range []string{"b1", "b2", "b3"} {
		require.NoError(t, repo.AddToList(id, b))
	}
	before, err := repo.GetList(id)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	require.NoError(t, repo.RemoveFromList(id, "b2"))
	require.NoError(t, repo.AddToList(id, "b4"))

	got := entries(t, db, id)
	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{got[0].Position, got[1].Position, got[2].Position})

	// Removing alone leaves updated_at where it was.
	require.NoError(t, repo.RemoveFromList(id, "b4"))
	after, err := repo.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt+3600, after.UpdatedAt)

	// Removing something that is not there is fine.
	assert.NoError(t, repo.RemoveFromList(id, "nope"))
}

func TestRepository_GetLists(t *testing.T) {
	repo, _, clock := setupTestDB(t)

	older, err := repo.CreateList("Older", "")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	newer, err := repo.CreateList("Newer", "")
	require.NoError(t, err)

	lists, err := repo.GetLists()
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, newer, lists[0].ID)
	assert.Equal(t, older, lists[1].ID)
	assert.Equal(t, []string{}, lists[0].BookIDs)

	// Touching the older list moves it to the front.
	clock.Advance(time.Minute)
	require.NoError(t, repo.AddToList(older, "b2"))
	require.NoError(t, repo.AddToList(older, "b1"))

	lists, err = repo.GetLists()
	require.NoError(t, err)
	assert.Equal(t, older, lists[0].ID)
	assert.Equal(t, []string{"b2", "b1"}, lists[0].BookIDs)
}

func TestRepository_GetLists_Empty(t *testing.T) {
	repo, _, _ := setupTestDB(t)

	lists, err := repo.GetLists()
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestRepository_DeleteList(t *testing.T) {
	repo, db, _ := setupTestDB(t)
	keep, err := repo.CreateList("Keep", "")
	require.NoError(t, err)
	drop, err := repo.CreateList("Drop", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddToList(keep, "b1"))
	require.NoError(t, repo.AddToList(drop, "b1"))

	require.NoError(t, repo.DeleteList(drop))

	_, err = repo.GetList(drop)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, entries(t, db, drop))
	assert.Len(t, entries(t, db, keep), 1)
}

func TestRepository_DeleteOrphanEntries(t *testing.T) {
	repo, db, _ := setupTestDB(t)
	require.NoError(t, db.Create(&entities.Book{ID: "b1", Title: "One"}).Error)
	id, err := repo.CreateList("L", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddToList(id, "b1"))
	require.NoError(t, repo.AddToList(id, "gone"))

	n, err := repo.DeleteOrphanEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.GetList(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, list.BookIDs)
}
