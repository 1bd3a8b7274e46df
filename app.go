package remix

import (
	"log/slog"
	"net/http"
	"strings"
)

// =============================================================================
// App Type
// =============================================================================

// App is the server-side request pipeline. It classifies every request as
// an HTML navigation, an incremental data fetch, or a manifest patch
// fetch, and drives the corresponding handler.
//
// Create an App with remix.New():
//
//	app := remix.New(remix.Config{
//	    Root:   ".",
//	    Mode:   remix.ModeDevelopment,
//	    Routes: routes.Tree(),
//	})
//	http.ListenAndServe(":3000", app)
type App struct {
	config Config
	logger *slog.Logger
	cell   initCell
}

// New creates a new App with the given configuration.
func New(cfg Config) *App {
	cfg.applyDefaults()
	return &App{
		config: cfg,
		logger: cfg.Logger,
	}
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// Handler returns the App as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler. All recoverable failures become
// concrete HTTP responses; nothing propagates past this method.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Dereference the init cell exactly once, before any blocking work.
	future := a.cell.get(a.buildInit)
	init, err := future.wait(r.Context())
	if err != nil {
		a.logger.Error("server initialization failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if a.config.Mode == ModeDevelopment {
		// The snapshot above is already captured; drop cached modules so
		// re-registration after a rebuild takes effect, then start the
		// next request's initialization without awaiting it.
		a.config.Modules.Purge("")
		a.cell.refresh(a.buildInit)
	}

	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, DataPrefix):
		a.serveData(w, r, init)
	case strings.HasPrefix(path, PatchPrefix):
		a.servePatch(w, r, init)
	default:
		a.serveHTML(w, r, init)
	}
}

// loadContext derives the per-request loader context value.
func (a *App) loadContext(r *http.Request) any {
	if a.config.LoadContext == nil {
		return nil
	}
	return a.config.LoadContext(r)
}
