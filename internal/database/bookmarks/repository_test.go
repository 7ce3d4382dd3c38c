package bookmarks

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagemark/reader/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_bookmarks_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Bookmark{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestBookmark(t *testing.T, repo *Repository, id, bookID string, createdAt time.Time) *entities.Bookmark {
	bm := &entities.Bookmark{
		ID:        id,
		BookID:    bookID,
		Position:  100,
		Page:      7,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Save(bm))
	return bm
}

func TestRepository_SaveAndGetByBook(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	createTestBookmark(t, repo, "bm-1", "book-1", base)
	createTestBookmark(t, repo, "bm-2", "book-1", base.Add(time.Minute))
	createTestBookmark(t, repo, "bm-3", "book-2", base)

	bookmarks, err := repo.GetByBook("book-1")

	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "bm-1", bookmarks[0].ID)
	assert.Equal(t, "bm-2", bookmarks[1].ID)
}

func TestRepository_GetByBook_Empty(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	bookmarks, err := repo.GetByBook("nothing-here")

	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestRepository_Delete(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBookmark(t, repo, "bm-1", "book-1", time.Now())

	require.NoError(t, repo.Delete("bm-1"))

	bookmarks, err := repo.GetByBook("book-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestRepository_DeleteOrphans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Book{ID: "book-1", Name: "A"}).Error)
	createTestBookmark(t, repo, "bm-kept", "book-1", time.Now())
	createTestBookmark(t, repo, "bm-orphan", "book-gone", time.Now())

	deleted, err := repo.DeleteOrphans()

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	kept, err := repo.GetByBook("book-1")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
