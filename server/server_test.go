package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/giygas/inventario-farmacia/config"
	"github.com/go-chi/chi/v5"
)

// routeRecorder answers every route with its own name
type routeRecorder struct{}

func (routeRecorder) reply(w http.ResponseWriter, name string) {
	w.Header().Set("X-Route", name)
	w.WriteHeader(http.StatusOK)
}

func (h routeRecorder) UploadInventory(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "upload")
}

func (h routeRecorder) GetInventory(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "inventory")
}

func (h routeRecorder) ClearInventory(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "clear")
}

func (h routeRecorder) SearchInventory(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "search")
}

func (h routeRecorder) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "catalog")
}

func (h routeRecorder) FindSubstanceByCode(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "code:"+chi.URLParam(r, "code"))
}

func (h routeRecorder) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.reply(w, "health")
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8000",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		MaxRequestBody: 10 * 1024 * 1024,
		MaxHeaderSize:  1024 * 1024,
	}
}

func TestRoutes(t *testing.T) {
	srv := NewServer(testConfig(), routeRecorder{})

	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{http.MethodPost, "/v1/inventory", "upload"},
		{http.MethodGet, "/v1/inventory", "inventory"},
		{http.MethodDelete, "/v1/inventory", "clear"},
		{http.MethodGet, "/v1/inventory/search?q=paracetamol", "search"},
		{http.MethodGet, "/v1/catalog", "catalog"},
		{http.MethodGet, "/v1/catalog/V0102", "code:V0102"},
		{http.MethodGet, "/health", "health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "127.0.0.1:5000"

			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rr.Code)
			}
			if got := rr.Header().Get("X-Route"); got != tt.expected {
				t.Errorf("Expected route %s, got %s", tt.expected, got)
			}
			if rr.Header().Get("X-RateLimit-Limit") == "" {
				t.Error("Expected rate limit headers from the middleware chain")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(testConfig(), routeRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := NewServer(testConfig(), routeRecorder{})

	tests := []struct {
		method   string
		path     string
		expected int
	}{
		{http.MethodGet, "/v2/inventory", http.StatusNotFound},
		{http.MethodPut, "/v1/inventory", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "127.0.0.1:5000"
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)

		if rr.Code != tt.expected {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.expected, rr.Code)
		}
	}
}

func TestPublicClientBlocked(t *testing.T) {
	srv := NewServer(testConfig(), routeRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	req.RemoteAddr = "203.0.113.50:5000"
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := NewServer(testConfig(), routeRecorder{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Unexpected shutdown error: %v", err)
	}
}
