package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/config"
	"github.com/geocoder89/sewasanjal/internal/db"
	apphttp "github.com/geocoder89/sewasanjal/internal/http"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/geocoder89/sewasanjal/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

func testConfig() config.Config {
	return config.Config{
		Env:              "test",
		StoreDriver:      config.StoreDriverMemory,
		JWTSecret:        "test-secret-key",
		JWTWebTTLMinutes: 15,
		JWTMobileTTLDays: 30,
		AdminEmail:       adminEmail,
		AdminPassword:    adminPassword,
		AdminName:        "Test Admin",
		CacheTTLSeconds:  30,
		CORSOrigins:      []string{"http://localhost:5173"},
	}
}

// setupRouter wires the full router over a fresh in-memory store with a seeded admin.
func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	return setupRouterWith(t, testConfig())
}

func setupRouterWith(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()

	if err := db.EnsureAdminUser(context.Background(), store.Users(), cfg); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := db.SeedDemoCategories(context.Background(), store.Categories()); err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := prometheus.NewRegistry()

	return apphttp.NewRouter(logger, apphttp.Deps{
		Config: cfg,
		Stores: apphttp.Stores{
			Users:          store.Users(),
			Categories:     store.Categories(),
			Providers:      store.Providers(),
			Services:       store.Services(),
			Availabilities: store.Availabilities(),
			Ping:           store.Ping,
		},
		Cache:    cache.NewMemory(cfg.CacheTTL()),
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
	})
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	cookies []*http.Cookie
}

// doRequest runs a request and returns the recorder and parsed response for cookies
func doRequest(router http.Handler, r request) (*httptest.ResponseRecorder, *http.Response) {
	req := httptest.NewRequest(r.method, r.path, bytes.NewBufferString(r.body))

	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, w.Result()
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, want, w.Body.String())
	}
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type apiErrorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
		Details   struct {
			Fields []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	User        struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type idResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

func register(t *testing.T, router http.Handler, email, name string) {
	t.Helper()
	w, _ := doRequest(router, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   `{"email":"` + email + `","password":"password123","name":"` + name + `"}`,
	})
	mustStatus(t, w, http.StatusCreated)
}

func login(t *testing.T, router http.Handler, email, password string) tokenResponse {
	t.Helper()
	w, _ := doRequest(router, request{
		method: http.MethodPost,
		path:   "/auth/login/mobile",
		body:   `{"email":"` + email + `","password":"` + password + `"}`,
	})
	mustStatus(t, w, http.StatusOK)

	var tok tokenResponse
	mustReadJSON(t, w, &tok)
	return tok
}

func categoryID(t *testing.T, router http.Handler, slug string) string {
	t.Helper()
	w, _ := doRequest(router, request{method: http.MethodGet, path: "/categories/" + slug})
	mustStatus(t, w, http.StatusOK)

	var c idResponse
	mustReadJSON(t, w, &c)
	return c.ID
}
