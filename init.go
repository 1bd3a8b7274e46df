package remix

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	internalconfig "github.com/remix-go/remix/internal/config"
	"github.com/remix-go/remix/internal/errors"
	"github.com/remix-go/remix/pkg/entry"
	"github.com/remix-go/remix/pkg/manifest"
	"github.com/remix-go/remix/pkg/modules"
)

// =============================================================================
// Server Initialization Cache
// =============================================================================

// serverInit is one self-consistent initialization snapshot: the project
// configuration, the browser build manifest, and the compiled modules as
// they were at initialization time. In production one snapshot serves the
// whole process; in development a fresh one is built for every request.
type serverInit struct {
	config          *internalconfig.Config
	browserManifest manifest.Manifest
	modules         moduleSnapshot
	entry           entry.Module
}

// moduleSnapshot is an immutable capture of the registry. It satisfies
// entry.ModuleReader, so a render in flight keeps the modules it started
// with even while the live registry is being purged and refilled.
type moduleSnapshot map[string]*modules.Module

func (s moduleSnapshot) Read(id string) *modules.Module {
	m, ok := s[id]
	if !ok {
		panic(errors.New("R140").WithDetail("Module '" + id + "' is not registered"))
	}
	return m
}

// initFuture is a single in-flight or completed initialization. done is
// closed exactly once, after snapshot and err are set.
type initFuture struct {
	done     chan struct{}
	snapshot *serverInit
	err      error
}

// wait blocks until the initialization settles or ctx is cancelled.
func (f *initFuture) wait(ctx context.Context) (*serverInit, error) {
	select {
	case <-f.done:
		return f.snapshot, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// initCell is the versioned slot holding the current initialization
// future. Requests dereference it exactly once, before any blocking work;
// refresh replaces the slot without touching futures already handed out.
type initCell struct {
	mu      sync.Mutex
	current *initFuture
}

// get returns the current future, starting the first initialization if
// the cell is empty.
func (c *initCell) get(build func() (*serverInit, error)) *initFuture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		c.current = start(build)
	}
	return c.current
}

// refresh installs a new in-flight initialization for subsequent
// requests. The previous future stays valid for requests that already
// hold it.
func (c *initCell) refresh(build func() (*serverInit, error)) {
	f := start(build)
	c.mu.Lock()
	c.current = f
	c.mu.Unlock()
}

func start(build func() (*serverInit, error)) *initFuture {
	f := &initFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		snapshot, err := build()
		if err != nil {
			f.err = errors.New("R001").Wrap(err)
			return
		}
		f.snapshot = snapshot
	}()
	return f
}

// buildInit produces a fresh serverInit from the app configuration and
// the current state of the module registry.
func (a *App) buildInit() (*serverInit, error) {
	cfg, err := a.readConfig()
	if err != nil {
		return nil, err
	}

	m, err := a.loadManifest(cfg)
	if err != nil {
		return nil, err
	}

	snapshot, err := a.config.Modules.Snapshot("")
	if err != nil {
		return nil, err
	}

	return &serverInit{
		config:          cfg,
		browserManifest: m,
		modules:         moduleSnapshot(snapshot),
		entry:           a.config.Entry,
	}, nil
}

func (a *App) readConfig() (*internalconfig.Config, error) {
	if a.config.ReadConfig != nil {
		return a.config.ReadConfig(a.config.Root)
	}
	if a.config.Root != "" && internalconfig.Exists(a.config.Root) {
		return internalconfig.Load(a.config.Root)
	}
	return internalconfig.New(), nil
}

func (a *App) loadManifest(cfg *internalconfig.Config) (manifest.Manifest, error) {
	if a.config.LoadManifest != nil {
		return a.config.LoadManifest(cfg.ManifestPath())
	}
	if a.config.Root == "" {
		return manifest.Manifest{}, nil
	}
	path := cfg.ManifestPath()
	if cfg.Dir() == "" {
		// Config was not read from disk; resolve relative to the app root.
		path = filepath.Join(a.config.Root, cfg.BuildDir, internalconfig.ManifestFileName)
	}
	if _, err := os.Stat(path); err != nil {
		// No build yet; HTML responses carry an empty asset manifest.
		return manifest.Manifest{}, nil
	}
	return manifest.Load(path)
}
