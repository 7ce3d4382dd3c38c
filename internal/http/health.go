package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagemark/reader/internal/database"
)

// HealthResponse is the liveness probe payload consumed by clients.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type HealthController struct {
	db *database.Database
}

func NewHealthController(db *database.Database) *HealthController {
	return &HealthController{db: db}
}

// Status reports whether the server is up and can reach its database.
// GET /api/health
func (h *HealthController) Status(c *gin.Context) {
	success := true
	message := "Server is running"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			success = false
			message = "database unreachable"
		}
	}

	statusCode := http.StatusOK
	if !success {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Success:   success,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
