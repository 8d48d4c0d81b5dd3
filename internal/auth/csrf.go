package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// csrfTokenContextKey is the Gin context key holding the per-request
// CSRF token for templates.
const csrfTokenContextKey = "csrf_token"

// CSRFMiddleware creates a Gin middleware for CSRF protection of the
// form endpoints. Safe methods (GET, HEAD, OPTIONS, TRACE) pass
// through unchecked.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Set(csrfTokenContextKey, csrf.Token(r))
			// carry the CSRF context forward; session middleware runs
			// after this and layers its context on top
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("CSRF token invalid or missing"))
}

// GetCSRFToken returns the CSRF token for the current request, for
// embedding into rendered forms.
func GetCSRFToken(c *gin.Context) string {
	if v, ok := c.Get(csrfTokenContextKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
