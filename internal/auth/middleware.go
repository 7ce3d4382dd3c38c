package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyUserID is the gin context key holding the authenticated user id.
const ContextKeyUserID = "auth_user_id"

// InjectUser copies the session identity into the gin context so handlers
// can read it without touching the session manager.
func (sm *SessionManager) InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, sm.GetUserID(c.Request))
		c.Next()
	}
}

// RequireSession aborts with 401 when the request carries no active session.
// It runs before the handler touches any local or remote state.
func (sm *SessionManager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm.GetUserID(c.Request) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the gin context.
// Returns 0 when the request is anonymous.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
