// Package books provides database operations for the local book store.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	all, err := repo.GetAllBooks()
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pagemark/reader/internal/entities"
)

var (
	// ErrNegativeDelta is returned when a reading-time update would be
	// applied with a negative elapsed value.
	ErrNegativeDelta = errors.New("reading time delta must be >= 0")
	// ErrNegativeSeconds is returned when an absolute reading time is negative.
	ErrNegativeSeconds = errors.New("reading time must be >= 0")
	// ErrNegativePosition is returned when a scroll position is negative.
	ErrNegativePosition = errors.New("scroll position must be >= 0")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks returns every stored book, most recently added first.
// The ordering (created_at DESC, id DESC as tie-breaker) is part of the
// contract: the library view shows the newest upload on top.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at DESC, id DESC").Find(&books).Error
	return books, err
}

// GetBook returns a book by id, or nil when no such book exists.
// A nil book with a nil error means "absent"; a non-nil error is an I/O fault.
func (r *Repository) GetBook(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SaveBook inserts or replaces a book by id.
func (r *Repository) SaveBook(book *entities.Book) error {
	return r.db.Save(book).Error
}

// DeleteBook removes the book row. Bookmarks and highlights referencing the
// book are left in place; the scheduled orphan cleanup removes them later.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Delete(&entities.Book{}, "id = ?", id).Error
}

// UpdateReadingTime adds deltaSeconds to the book's accumulated reading time
// and refreshes last_read_at. The stored value never goes below zero.
func (r *Repository) UpdateReadingTime(id string, deltaSeconds float64) error {
	if deltaSeconds < 0 {
		return ErrNegativeDelta
	}
	res := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reading_time_seconds": gorm.Expr("MAX(reading_time_seconds + ?, 0)", deltaSeconds),
			"last_read_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// SetReadingTime overwrites the accumulated reading time with an absolute value.
func (r *Repository) SetReadingTime(id string, absoluteSeconds float64) error {
	if absoluteSeconds < 0 {
		return ErrNegativeSeconds
	}
	res := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reading_time_seconds": absoluteSeconds,
			"last_read_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateScrollPosition overwrites the saved scroll offset.
func (r *Repository) UpdateScrollPosition(id string, position float64) error {
	if position < 0 {
		return ErrNegativePosition
	}
	res := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"scroll_position": position,
			"last_read_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
