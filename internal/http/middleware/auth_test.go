package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-api/internal/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewManager("test-secret", time.Hour)

	router := gin.New()
	orgs := router.Group("/orgs/:orgId", Auth(tokens), RequireOrg())
	orgs.GET("/vehicles", func(c *gin.Context) {
		principal, _ := MustPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"orgId": principal.OrgID.String()})
	})
	return router, tokens
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orgs/"+uuid.NewString()+"/vehicles", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orgs/"+uuid.NewString()+"/vehicles", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireOrgBlocksCrossTenant(t *testing.T) {
	router, tokens := newTestRouter(t)

	token, err := tokens.Sign(uuid.NewString(), uuid.NewString(), "owner")
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orgs/"+uuid.NewString()+"/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireOrgAllowsOwnOrg(t *testing.T) {
	router, tokens := newTestRouter(t)

	orgID := uuid.NewString()
	token, err := tokens.Sign(uuid.NewString(), orgID, "owner")
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orgs/"+orgID+"/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}
