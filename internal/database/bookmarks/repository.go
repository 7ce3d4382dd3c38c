// Package bookmarks provides database operations for bookmark management.
package bookmarks

import (
	"gorm.io/gorm"

	"github.com/pagemark/reader/internal/entities"
)

// Repository handles all bookmark database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookmark repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByBook returns all bookmarks for a book, oldest first.
func (r *Repository) GetByBook(bookID string) ([]entities.Bookmark, error) {
	var bookmarks []entities.Bookmark
	err := r.db.Where("book_id = ?", bookID).
		Order("created_at ASC").
		Find(&bookmarks).Error
	return bookmarks, err
}

// Save inserts or replaces a bookmark by id.
func (r *Repository) Save(bookmark *entities.Bookmark) error {
	return r.db.Save(bookmark).Error
}

// Delete removes a bookmark by id.
func (r *Repository) Delete(id string) error {
	return r.db.Delete(&entities.Bookmark{}, "id = ?", id).Error
}

// DeleteOrphans removes bookmarks whose book no longer exists.
// Used by the scheduled cleanup task.
func (r *Repository) DeleteOrphans() (int64, error) {
	res := r.db.Where("book_id NOT IN (?)",
		r.db.Model(&entities.Book{}).Select("id"),
	).Delete(&entities.Bookmark{})
	return res.RowsAffected, res.Error
}
