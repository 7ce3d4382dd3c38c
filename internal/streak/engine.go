// Package streak implements the daily reading streak: one completion credit
// per calendar day, consecutive days extend the streak, a gap of two or more
// days breaks it.
package streak

import (
	"errors"
	"fmt"
	"time"

	"github.com/pagemark/reader/internal/entities"
)

var (
	// ErrInvalidDayCount is returned when a streak override is requested with
	// a non-positive day count.
	ErrInvalidDayCount = errors.New("streak day count must be a positive integer")
	// ErrInvalidStartDate is returned when a streak override carries a
	// malformed start date.
	ErrInvalidStartDate = errors.New("streak start date must be formatted YYYY-MM-DD")
)

// Store is the persistence surface the engine needs.
type Store interface {
	Get() (*entities.StreakData, error)
	Save(*entities.StreakData) error
}

// View is the streak state augmented with the derived completion flag.
// HasCompletedToday is never persisted; it is recomputed on every load.
type View struct {
	CurrentStreak     int    `json:"current_streak"`
	StartDate         string `json:"start_date"`
	LastActiveDate    string `json:"last_active_date,omitempty"`
	HasCompletedToday bool   `json:"has_completed_today"`
}

// Engine applies the streak state machine over the persisted record.
// All day comparisons use a single location fixed at construction and a
// single clock sample per operation, so a call can never straddle its own
// day boundary.
type Engine struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewEngine creates an engine pinned to the local time zone.
func NewEngine(store Store) *Engine {
	return NewEngineAt(store, time.Local, time.Now)
}

// NewEngineAt creates an engine with an explicit location and clock.
func NewEngineAt(store Store, loc *time.Location, now func() time.Time) *Engine {
	return &Engine{store: store, loc: loc, now: now}
}

// CompleteDay credits today's reading goal. It returns true when state
// changed and false when today was already credited. The three live
// transitions:
//
//   - no record yet: streak starts at 1
//   - last active yesterday: streak extends by 1
//   - last active two or more days ago: streak resets to 1, start date moves
func (e *Engine) CompleteDay() (bool, error) {
	ts := e.now()
	today := DayKey(ts, e.loc)
	yesterday := PreviousDayKey(ts, e.loc)

	data, err := e.store.Get()
	if err != nil {
		return false, fmt.Errorf("load streak: %w", err)
	}

	if data == nil {
		data = &entities.StreakData{
			CurrentStreak:  1,
			StartDate:      today,
			LastActiveDate: today,
		}
		if err := e.store.Save(data); err != nil {
			return false, fmt.Errorf("save streak: %w", err)
		}
		return true, nil
	}

	if data.LastActiveDate == today {
		return false, nil
	}

	if data.LastActiveDate == yesterday {
		data.CurrentStreak++
	} else {
		data.CurrentStreak = 1
		data.StartDate = today
	}
	data.LastActiveDate = today

	if err := e.store.Save(data); err != nil {
		return false, fmt.Errorf("save streak: %w", err)
	}
	return true, nil
}

// InitializeStreak is the administrative override: it unconditionally replaces
// the record with the given day count, marks today as completed, and uses
// startDate when given (today otherwise).
func (e *Engine) InitializeStreak(days int, startDate string) error {
	if days < 1 {
		return ErrInvalidDayCount
	}
	if startDate != "" && !ValidDayKey(startDate) {
		return ErrInvalidStartDate
	}

	today := DayKey(e.now(), e.loc)
	if startDate == "" {
		startDate = today
	}

	data := &entities.StreakData{
		CurrentStreak:  days,
		StartDate:      startDate,
		LastActiveDate: today,
	}
	if err := e.store.Save(data); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

// Load returns the augmented streak view, or nil when no streak exists yet.
func (e *Engine) Load() (*View, error) {
	data, err := e.store.Get()
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	today := DayKey(e.now(), e.loc)
	return &View{
		CurrentStreak:     data.CurrentStreak,
		StartDate:         data.StartDate,
		LastActiveDate:    data.LastActiveDate,
		HasCompletedToday: data.LastActiveDate == today,
	}, nil
}
