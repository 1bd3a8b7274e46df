package remix

import (
	"log/slog"
	"net/http"

	internalconfig "github.com/remix-go/remix/internal/config"
	"github.com/remix-go/remix/pkg/entry"
	"github.com/remix-go/remix/pkg/manifest"
	"github.com/remix-go/remix/pkg/modules"
	"github.com/remix-go/remix/pkg/router"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Mode selects the initialization strategy of an App.
type Mode string

const (
	// ModeProduction initializes the server once on first request and
	// reuses the snapshot for the process lifetime.
	ModeProduction Mode = "production"

	// ModeDevelopment re-initializes before every request: the request
	// being served uses the snapshot it awaited, the module cache is
	// purged, and a fresh initialization is started for the next request.
	ModeDevelopment Mode = "development"
)

// Config is the main application configuration.
type Config struct {
	// Root is the application root directory, where remix.json and the
	// browser build live. Empty means the app runs without an on-disk
	// project (routes and manifest supplied in code).
	Root string

	// Mode selects production or development initialization.
	// Default: ModeProduction.
	Mode Mode

	// Routes is the nested application route tree.
	Routes []*router.Route

	// Modules holds compiled route and entry modules. If nil, a fresh
	// registry is created.
	Modules *modules.Registry

	// Entry produces the response body for HTML navigations. If nil,
	// entry.DefaultDocument is used.
	Entry entry.Module

	// LoadContext derives the per-request value passed to every loader
	// (e.g. an authenticated user or a database handle). May be nil.
	LoadContext func(r *http.Request) any

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// ReadConfig overrides how the project configuration is read.
	// Defaults to reading <Root>/remix.json when Root is set.
	ReadConfig func(root string) (*internalconfig.Config, error)

	// LoadManifest overrides how the browser build manifest is read.
	// Defaults to reading <buildDir>/manifest.json when Root is set.
	LoadManifest func(path string) (manifest.Manifest, error)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeProduction
	}
	if c.Modules == nil {
		c.Modules = modules.NewRegistry()
	}
	if c.Entry == nil {
		c.Entry = entry.DefaultDocument
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
