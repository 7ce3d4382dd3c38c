// Package streak provides database operations for the singleton streak record.
package streak

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pagemark/reader/internal/entities"
)

// Repository handles persistence of the single StreakData row.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new streak repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the streak record, or nil when none has been saved yet.
// Absence is not an error: the UI treats it as "no streak started".
func (r *Repository) Get() (*entities.StreakData, error) {
	var data entities.StreakData
	err := r.db.First(&data, "id = ?", entities.StreakDataID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Save overwrites the singleton record in full.
func (r *Repository) Save(data *entities.StreakData) error {
	data.ID = entities.StreakDataID
	return r.db.Save(data).Error
}
