package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// Middleware resolves the session into a viewer and guards protected
// routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{service: service, sessionManager: sessionManager}
}

// CurrentUser loads the authenticated user (if any) from the session
// into the Gin context. Anonymous requests get user ID 0.
func (m *Middleware) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessionManager.GetUserID(c.Request)
		if userID != 0 {
			if user, err := m.service.GetUserByID(userID); err == nil {
				c.Set(ContextKeyUserID, user.ID)
				c.Set(ContextKeyUsername, user.Username)
				c.Next()
				return
			}
			// stale session referencing a deleted user
			_ = m.sessionManager.DestroySession(c.Request)
		}
		c.Set(ContextKeyUserID, uint(0))
		c.Next()
	}
}

// RequireAuth redirects unauthenticated requests to the login page,
// preserving the original path in ?next=.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// ViewerID returns the authenticated user's ID, or nil for anonymous
// viewers. Query code takes this explicit viewer reference instead of
// peeking at ambient request state.
func ViewerID(c *gin.Context) *uint {
	if id := GetUserID(c); id != 0 {
		return &id
	}
	return nil
}

// GetUsername extracts the authenticated username from the Gin context.
func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUsername); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
