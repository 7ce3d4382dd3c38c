package entities

import (
	"time"
)

// StreakDataID is the primary key of the singleton streak row.
const StreakDataID = uint(1)

// StreakData is the single persisted record tracking the daily reading streak.
// Dates are calendar-day strings (YYYY-MM-DD); comparisons are string equality,
// never timestamp proximity.
type StreakData struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	CurrentStreak  int       `json:"current_streak"`
	StartDate      string    `gorm:"size:10" json:"start_date"`
	LastActiveDate string    `gorm:"size:10" json:"last_active_date,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (StreakData) TableName() string {
	return "streak_data"
}
