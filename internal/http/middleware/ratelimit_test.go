package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimitCapsBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimit(5)

	router := gin.New()
	router.POST("/ingest/acme", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest/acme", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest/acme", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after burst", w.Code)
	}
}

func TestRateLimitTracksPerIP(t *testing.T) {
	rl := NewRateLimit(1)

	if !rl.allow("10.0.0.1") {
		t.Fatal("first request from 10.0.0.1 should pass")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("second request from 10.0.0.1 should be limited")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("10.0.0.2 has its own bucket and should pass")
	}
}
