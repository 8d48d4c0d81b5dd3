package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// parseIDParam parses a numeric path parameter, responding with 400 on
// garbage input. The bool result reports success.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid %s", name)
		return 0, false
	}
	return uint(id), true
}

// parseUints converts submitted multi-select values into IDs, skipping
// anything non-numeric.
func parseUints(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

// sanitizeRedirectPath returns a safe local redirect target, defaulting
// to "/" to prevent open redirects.
func sanitizeRedirectPath(path string) string {
	if path == "" ||
		!strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "//") ||
		strings.Contains(path, "://") ||
		strings.Contains(path, "\\") {
		return "/"
	}
	return path
}
