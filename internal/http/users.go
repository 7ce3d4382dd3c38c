package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagemark/reader/internal/auth"
)

type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager) *AuthController {
	return &AuthController{service: service, sessions: sessions}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Register creates the first account. Once any account exists, registration
// is closed; this is a single-operator server.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		respondInternalError(c, err, "check users")
		return
	}
	if hasUsers {
		respondError(c, http.StatusForbidden, "registration is closed")
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.CreateUser(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		case errors.Is(err, auth.ErrUserExists):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondInternalError(c, err, "create user")
		}
		return
	}

	if err := ac.sessions.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}
	respondCreated(c, userResponse{ID: user.ID, Username: user.Username})
}

// Login validates credentials and opens a cookie session.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			// One message for both cases so login probing learns nothing.
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondInternalError(c, err, "authenticate")
		return
	}

	if err := ac.sessions.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// Logout destroys the current session. Succeeds even without one.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "logged out")
}

// Me returns the authenticated user, or 401 when anonymous.
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, auth.ErrAuthRequired.Error())
		return
	}
	c.JSON(http.StatusOK, userResponse{
		ID:       userID,
		Username: ac.sessions.GetUsername(c.Request),
	})
}
