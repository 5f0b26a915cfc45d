package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/db"
)

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"name":   "fleet-api",
		"env":    h.cfg.Environment,
		"uptime": time.Since(h.startedAt).Seconds(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Seconds(),
		"env":       h.cfg.Environment,
	})
}

// healthData reports storage-side facts the ops dashboard cares about: which
// tables exist and how long fixes are retained.
func (h *Handler) healthData(c *gin.Context) {
	var tables []string
	err := h.database.WithContext(c.Request.Context()).
		Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").
		Scan(&tables).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"retentionDays": h.cfg.Ingest.RetentionDays,
		"tables":        tables,
	})
}

func (h *Handler) ready(c *gin.Context) {
	if err := db.Ping(h.database); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}
