package http

import (
	"github.com/pagemark/reader/internal/auth"
	"github.com/pagemark/reader/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database       *database.Database
	BookStore      BookStore
	BookmarkStore  BookmarkStore
	HighlightStore HighlightStore
	StreakEngine   StreakEngine
	BlobStore      BlobStore

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Cross-origin access for the front-end
	FrontendOrigin string
}
