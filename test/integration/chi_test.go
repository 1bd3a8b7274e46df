package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	remix "github.com/remix-go/remix"
	"github.com/remix-go/remix/pkg/entry"
	"github.com/remix-go/remix/pkg/manifest"
)

type testUser struct {
	ID    string
	Email string
}

type userContextKey struct{}

// mockAuthMiddleware simulates an upstream authentication layer. The
// remix app sees its context values through Config.LoadContext.
func mockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer valid-token" {
			user := &testUser{ID: "user-123", Email: "test@example.com"}
			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func testManifest() manifest.Manifest {
	return manifest.Manifest{
		manifest.BrowserEntry: {URL: "/build/entry.browser-abc.js"},
		"routes/root":         {URL: "/build/root-111.js"},
		"routes/index":        {URL: "/build/index-222.js"},
	}
}

func testApp(t *testing.T) *remix.App {
	t.Helper()
	routes := []*remix.Route{{
		ID: "routes/root",
		Children: []*remix.Route{
			{
				ID: "routes/index",
				Loader: func(ctx context.Context, a remix.LoaderArgs) (any, error) {
					if user, ok := a.LoadContext.(*testUser); ok && user != nil {
						return map[string]string{"user": user.Email}, nil
					}
					return map[string]string{"user": "anonymous"}, nil
				},
			},
		},
	}}
	return remix.New(remix.Config{
		Routes: routes,
		LoadManifest: func(string) (manifest.Manifest, error) {
			return testManifest(), nil
		},
		LoadContext: func(r *http.Request) any {
			if val := r.Context().Value(userContextKey{}); val != nil {
				return val
			}
			return nil
		},
		Entry: func(w http.ResponseWriter, r *http.Request, status int, c *entry.Context) error {
			w.WriteHeader(status)
			return nil
		},
	})
}

func TestChiRouterIntegration(t *testing.T) {
	app := testApp(t)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mockAuthMiddleware)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/*", app.Handler())

	t.Run("API route bypasses the app", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Errorf("body = %q, want OK", rec.Body.String())
		}
	})

	t.Run("HTML navigation reaches the app", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("data fetch works behind chi", func(t *testing.T) {
		req := httptest.NewRequest("GET", remix.DataPrefix+"?path=/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var entries []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("entries = %d, want 2", len(entries))
		}
	})

	t.Run("auth context flows into loaders", func(t *testing.T) {
		req := httptest.NewRequest("GET", remix.DataPrefix+"?path=/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		var entries []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		found := false
		for _, e := range entries {
			if e["routeId"] == "routes/index" {
				data, _ := e["data"].(map[string]any)
				if data["user"] == "test@example.com" {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("loader did not see the authenticated user: %v", entries)
		}
	})

	t.Run("middleware chain executes before the app", func(t *testing.T) {
		middlewareExecuted := false

		tracking := chi.NewRouter()
		tracking.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				middlewareExecuted = true
				next.ServeHTTP(w, r)
			})
		})
		tracking.Handle("/*", app.Handler())

		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		tracking.ServeHTTP(rec, req)

		if !middlewareExecuted {
			t.Error("expected middleware to run before the remix handler")
		}
	})
}

func TestStdlibMuxIntegration(t *testing.T) {
	app := testApp(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})
	mux.Handle("/", app.Handler())

	t.Run("API route works", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/test", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Body.String() != "api" {
			t.Errorf("body = %q, want api", rec.Body.String())
		}
	})

	t.Run("patch endpoint mounted", func(t *testing.T) {
		req := httptest.NewRequest("GET", remix.PatchPrefix+"?path=/", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
