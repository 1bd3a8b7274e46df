package modules

import (
	"errors"
	"sync/atomic"
	"testing"

	remixerrors "github.com/remix-go/remix/internal/errors"
)

func TestLoadCachesInstance(t *testing.T) {
	var builds atomic.Int32

	reg := NewRegistry()
	reg.Register("routes/index", func() (*Module, error) {
		builds.Add(1)
		return &Module{Default: "index"}, nil
	})

	first, err := reg.Load("routes/index")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	second, err := reg.Load("routes/index")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if first != second {
		t.Error("Load should return the cached instance")
	}
	if builds.Load() != 1 {
		t.Errorf("factory ran %d times, want 1", builds.Load())
	}
	if first.ID != "routes/index" {
		t.Errorf("ID = %q, want routes/index", first.ID)
	}
}

func TestLoadUnregistered(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Load("routes/missing")
	if err == nil {
		t.Fatal("expected error for unregistered module")
	}
	var re *remixerrors.RemixError
	if !errors.As(err, &re) || re.Code != "R140" {
		t.Errorf("error = %v, want R140", err)
	}
}

func TestLoadFactoryFailure(t *testing.T) {
	boom := errors.New("compile failed")

	reg := NewRegistry()
	reg.Register("routes/broken", func() (*Module, error) {
		return nil, boom
	})

	_, err := reg.Load("routes/broken")
	if err == nil {
		t.Fatal("expected error")
	}
	var re *remixerrors.RemixError
	if !errors.As(err, &re) || re.Code != "R141" {
		t.Errorf("error = %v, want R141", err)
	}
	if !errors.Is(err, boom) {
		t.Error("factory error should be wrapped")
	}
}

func TestReadPanicsOnUnregistered(t *testing.T) {
	reg := NewRegistry()

	defer func() {
		if recover() == nil {
			t.Error("Read of an unregistered module must panic")
		}
	}()
	reg.Read("routes/missing")
}

func TestPurgeKeepsFactories(t *testing.T) {
	var builds atomic.Int32

	reg := NewRegistry()
	reg.Register("app1/routes/index", func() (*Module, error) {
		builds.Add(1)
		return &Module{}, nil
	})
	reg.Register("app2/routes/index", func() (*Module, error) {
		return &Module{}, nil
	})

	before, _ := reg.Load("app1/routes/index")
	kept, _ := reg.Load("app2/routes/index")

	reg.Purge("app1/")

	after, err := reg.Load("app1/routes/index")
	if err != nil {
		t.Fatalf("Load after purge error: %v", err)
	}
	if after == before {
		t.Error("purged module should be rebuilt on next Load")
	}
	if builds.Load() != 2 {
		t.Errorf("factory ran %d times, want 2", builds.Load())
	}

	// The other root's cache entry survives.
	still, _ := reg.Load("app2/routes/index")
	if still != kept {
		t.Error("purge must not touch ids outside the prefix")
	}
}

func TestRegisterReplacesCached(t *testing.T) {
	reg := NewRegistry()
	reg.Register("routes/index", func() (*Module, error) {
		return &Module{Default: "v1"}, nil
	})
	reg.Load("routes/index")

	reg.Register("routes/index", func() (*Module, error) {
		return &Module{Default: "v2"}, nil
	})

	m, err := reg.Load("routes/index")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if m.Default != "v2" {
		t.Errorf("Default = %v, want v2", m.Default)
	}
}

func TestSnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.Register("app/routes/index", func() (*Module, error) {
		return &Module{Default: 1}, nil
	})
	reg.Register("app/routes/about", func() (*Module, error) {
		return &Module{Default: 2}, nil
	})
	reg.Register("other/routes/index", func() (*Module, error) {
		return &Module{Default: 3}, nil
	})

	snap, err := reg.Snapshot("app/")
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(snap))
	}
	if _, ok := snap["other/routes/index"]; ok {
		t.Error("snapshot should exclude other roots")
	}

	// A later purge leaves the snapshot intact.
	captured := snap["app/routes/index"]
	reg.Purge("app/")
	if snap["app/routes/index"] != captured {
		t.Error("snapshot must be unaffected by purge")
	}
}

func TestIDs(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func() (*Module, error) { return &Module{}, nil })
	reg.Register("a", func() (*Module, error) { return &Module{}, nil })

	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs = %v, want [a b]", ids)
	}
}
