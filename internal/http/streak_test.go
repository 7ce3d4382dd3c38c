package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagemark/reader/internal/database"
	streakdb "github.com/pagemark/reader/internal/database/streak"
	"github.com/pagemark/reader/internal/streak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStreakTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_httpstreak_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	engine := streak.NewEngineAt(streakdb.NewRepository(db.DB), time.UTC, func() time.Time { return now })
	controller := NewStreakController(engine)

	router := gin.New()
	router.GET("/api/streak", controller.Get)
	router.POST("/api/streak/complete", controller.CompleteDay)
	router.PUT("/api/streak", controller.Initialize)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func TestStreakController_Get(t *testing.T) {
	t.Run("returns empty state before any completion", func(t *testing.T) {
		router, cleanup := setupStreakTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/streak", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view streak.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, 0, view.CurrentStreak)
		assert.False(t, view.HasCompletedToday)
	})
}

func TestStreakController_CompleteDay(t *testing.T) {
	t.Run("first completion starts the streak, repeat is a no-op", func(t *testing.T) {
		router, cleanup := setupStreakTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/streak/complete", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response CompleteDayResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Updated)
		require.NotNil(t, response.Streak)
		assert.Equal(t, 1, response.Streak.CurrentStreak)
		assert.True(t, response.Streak.HasCompletedToday)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("POST", "/api/streak/complete", nil)
		router.ServeHTTP(w, req)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Updated)
		assert.Equal(t, 1, response.Streak.CurrentStreak)
	})
}

func TestStreakController_Initialize(t *testing.T) {
	t.Run("overrides the streak with the given state", func(t *testing.T) {
		router, cleanup := setupStreakTest(t)
		defer cleanup()

		payload, _ := json.Marshal(initializeStreakRequest{Days: 14, StartDate: "2024-06-02"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/streak", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var view streak.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, 14, view.CurrentStreak)
		assert.Equal(t, "2024-06-02", view.StartDate)
		assert.True(t, view.HasCompletedToday)
	})

	t.Run("rejects a non-positive day count", func(t *testing.T) {
		router, cleanup := setupStreakTest(t)
		defer cleanup()

		payload, _ := json.Marshal(initializeStreakRequest{Days: 0})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/streak", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
