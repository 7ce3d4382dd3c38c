package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagemark/reader/internal/streak"
)

// StreakEngine is the streak surface used by the controller.
type StreakEngine interface {
	CompleteDay() (bool, error)
	InitializeStreak(days int, startDate string) error
	Load() (*streak.View, error)
}

type StreakController struct {
	engine StreakEngine
}

func NewStreakController(engine StreakEngine) *StreakController {
	return &StreakController{engine: engine}
}

// Get returns the current streak state, or an empty state when no reading
// day has ever been completed.
// GET /api/streak
func (sc *StreakController) Get(c *gin.Context) {
	view, err := sc.engine.Load()
	if err != nil {
		respondInternalError(c, err, "load streak")
		return
	}
	if view == nil {
		view = &streak.View{}
	}
	c.JSON(http.StatusOK, view)
}

// CompleteDayResponse reports whether the completion changed streak state
// alongside the state after the call.
type CompleteDayResponse struct {
	Updated bool         `json:"updated"`
	Streak  *streak.View `json:"streak"`
}

// CompleteDay credits today's reading goal.
// POST /api/streak/complete
func (sc *StreakController) CompleteDay(c *gin.Context) {
	updated, err := sc.engine.CompleteDay()
	if err != nil {
		respondInternalError(c, err, "complete day")
		return
	}

	view, err := sc.engine.Load()
	if err != nil {
		respondInternalError(c, err, "load streak")
		return
	}
	c.JSON(http.StatusOK, CompleteDayResponse{Updated: updated, Streak: view})
}

type initializeStreakRequest struct {
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
}

// Initialize overwrites the streak with an explicit day count, for restoring
// state from another device.
// PUT /api/streak
func (sc *StreakController) Initialize(c *gin.Context) {
	var req initializeStreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	err := sc.engine.InitializeStreak(req.Days, req.StartDate)
	switch {
	case errors.Is(err, streak.ErrInvalidDayCount), errors.Is(err, streak.ErrInvalidStartDate):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "initialize streak")
		return
	}

	view, err := sc.engine.Load()
	if err != nil {
		respondInternalError(c, err, "load streak")
		return
	}
	c.JSON(http.StatusOK, view)
}
