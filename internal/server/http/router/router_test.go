package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	testhelpers "github.com/polkiloo/campusorder/internal/test"
)

func newTestEngine() http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(testhelpers.OrderingFacadeStub{}, logger)
}

func TestSetupRoutesPublicEndpoints(t *testing.T) {
	engine := newTestEngine()

	body := bytes.NewBufferString(`{"login":"user","password":"pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Authorization") == "" {
		t.Fatal("expected auth header after registration")
	}
}

func TestSetupGuardsAuthenticatedEndpoints(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/user/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d", w.Code)
	}
}

func TestSetupServesScheduledOrders(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/user/scheduled-orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
