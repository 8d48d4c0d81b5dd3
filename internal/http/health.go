package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/database"
)

// HealthController reports service liveness.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status pings the database and reports overall health.
func (ctl *HealthController) Status(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if sqlDB, err := ctl.db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": ctl.version,
	})
}
