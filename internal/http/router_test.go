package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/config"
)

func TestRouterServesRootAndHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &Handler{cfg: &config.Config{}, startedAt: time.Now()}
	noop := func(c *gin.Context) {}
	router := NewRouter(handler, noop, noop, noop, handler.cfg)

	for _, path := range []string{"/", "/api/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, w.Code)
		}
	}

	// Liveness lives at / and /api/health only.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /healthz = %d, want 404", w.Code)
	}
}
