package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pagemark/reader/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Cookies cross the origin boundary, so the front-end origin is
	// allow-listed explicitly rather than wildcarded.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", auth.CSRFTokenHeader},
		ExposeHeaders:    []string{auth.CSRFTokenHeader},
		AllowCredentials: true,
	}))

	// CSRF must run before session so that session context is preserved.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(cfg.SessionManager.InjectUser())
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database)
	booksController := NewBooksController(cfg.BookStore, cfg.BlobStore)
	bookmarksController := NewBookmarksController(cfg.BookmarkStore, cfg.BookStore)
	highlightsController := NewHighlightsController(cfg.HighlightStore, cfg.BookStore)
	streakController := NewStreakController(cfg.StreakEngine)

	// Health endpoint
	router.GET("/api/health", health.Status)

	// Auth endpoints
	if cfg.AuthService != nil && cfg.SessionManager != nil {
		authController := NewAuthController(cfg.AuthService, cfg.SessionManager)
		router.POST("/api/auth/register", authController.Register)
		router.POST("/api/auth/login", authController.Login)
		router.POST("/api/auth/logout", authController.Logout)
		router.GET("/api/auth/me", authController.Me)
	}

	// Books endpoints
	router.POST("/api/books/upload", booksController.Upload)
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id/reading-time", booksController.UpdateReadingTime)
	router.PUT("/api/books/:id/scroll-position", booksController.UpdateScrollPosition)

	// Deletion is destructive and fails closed: no session, no delete.
	if cfg.SessionManager != nil {
		router.DELETE("/api/books/:id", cfg.SessionManager.RequireSession(), booksController.DeleteBook)
	} else {
		router.DELETE("/api/books/:id", func(c *gin.Context) {
			respondError(c, http.StatusUnauthorized, auth.ErrAuthRequired.Error())
		})
	}

	// Bookmark endpoints
	router.GET("/api/books/:id/bookmarks", bookmarksController.GetByBook)
	router.POST("/api/bookmarks", bookmarksController.Create)
	router.DELETE("/api/bookmarks/:id", bookmarksController.Delete)

	// Highlight endpoints
	router.GET("/api/books/:id/highlights", highlightsController.GetByBook)
	router.POST("/api/highlights", highlightsController.Create)
	router.DELETE("/api/highlights/:id", highlightsController.Delete)

	// Streak endpoints
	router.GET("/api/streak", streakController.Get)
	router.POST("/api/streak/complete", streakController.CompleteDay)
	router.PUT("/api/streak", streakController.Initialize)

	return router
}
