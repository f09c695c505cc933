package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/config"
	"github.com/jengzang/crowdscan-backend-go/internal/database"
	"github.com/jengzang/crowdscan-backend-go/internal/middleware"
	"github.com/jengzang/crowdscan-backend-go/internal/narrative"
	"github.com/jengzang/crowdscan-backend-go/internal/repository"
	"github.com/jengzang/crowdscan-backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	db, err := database.Open(database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	readings := repository.NewReadingRepository(db)
	locations := repository.NewLocationRepository(db)
	r, limiter := SetupRouter(cfg, Services{
		Risk:      service.NewRiskService(readings, locations, narrative.Disabled{}, 3, time.Second),
		Ingest:    service.NewIngestService(readings, nil, 3, time.Second),
		Directory: service.NewDirectoryService(readings, locations, 3, time.Second),
		DB:        db,
	})
	t.Cleanup(limiter.Stop)
	return r
}

func serve(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRegistered(t *testing.T) {
	r := newRouter(t, &config.Config{AIRateLimit: 100, AIRateWindow: time.Minute})

	testCases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/zones", "", http.StatusOK},
		{http.MethodGet, "/api/heatmap", "", http.StatusOK},
		{http.MethodGet, "/api/risk-summary", "", http.StatusOK},
		{http.MethodGet, "/api/risk-stats", "", http.StatusConflict},
		{http.MethodPost, "/api/crowd-data", `{"locationId":"stadium1","gateId":"G1","density":4.2}`, http.StatusCreated},
		{http.MethodPost, "/api/ai/location-risk", `{"location":"Nowhere"}`, http.StatusNotFound},
		{http.MethodPost, "/api/ai/custom-query", `{"query":"status?"}`, http.StatusBadGateway},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(r, tc.method, tc.path, tc.body, "")
			if w.Code != tc.want {
				t.Errorf("Expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
			if w.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("Expected a request id header")
			}
		})
	}
}

func TestAIRoutesRateLimited(t *testing.T) {
	r := newRouter(t, &config.Config{AIRateLimit: 2, AIRateWindow: time.Minute})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodPost, "/api/ai/location-risk", `{"location":"Nowhere"}`, "")
		codes = append(codes, w.Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected the third AI request to be limited, got %v", codes)
	}

	if w := serve(r, http.MethodGet, "/api/zones", "", ""); w.Code != http.StatusOK {
		t.Errorf("Expected non-AI routes to be unaffected, got %d", w.Code)
	}
}

func TestOfficerModeRequiresToken(t *testing.T) {
	cfg := &config.Config{
		AIRateLimit:         100,
		AIRateWindow:        time.Minute,
		JWTSecret:           "secret",
		RequireOfficerToken: true,
	}
	r := newRouter(t, cfg)

	if w := serve(r, http.MethodGet, "/api/risk-summary?mode=officer", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	token, err := middleware.IssueToken("secret", "ops", middleware.RoleOfficer, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if w := serve(r, http.MethodGet, "/api/risk-summary?mode=officer", "", token); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with officer token, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/risk-summary", "", ""); w.Code != http.StatusOK {
		t.Errorf("Expected public mode to stay open, got %d", w.Code)
	}
}
