// Package highlights provides database operations for highlight management.
package highlights

import (
	"gorm.io/gorm"

	"github.com/pagemark/reader/internal/entities"
)

// Repository handles all highlight database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new highlight repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByBook returns all highlights for a book ordered by position in the text.
func (r *Repository) GetByBook(bookID string) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("book_id = ?", bookID).
		Order("start_offset ASC, created_at ASC").
		Find(&highlights).Error
	return highlights, err
}

// Save inserts or replaces a highlight by id.
func (r *Repository) Save(highlight *entities.Highlight) error {
	return r.db.Save(highlight).Error
}

// Delete removes a highlight by id.
func (r *Repository) Delete(id string) error {
	return r.db.Delete(&entities.Highlight{}, "id = ?", id).Error
}

// DeleteOrphans removes highlights whose book no longer exists.
// Used by the scheduled cleanup task.
func (r *Repository) DeleteOrphans() (int64, error) {
	res := r.db.Where("book_id NOT IN (?)",
		r.db.Model(&entities.Book{}).Select("id"),
	).Delete(&entities.Highlight{})
	return res.RowsAffected, res.Error
}
