package loader

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/remix-go/remix/pkg/router"
)

func matchFor(id string, fn router.Loader) *router.Match {
	return &router.Match{
		Pathname: "/" + id,
		Params:   map[string]string{},
		Route:    &router.Route{ID: id, Loader: fn},
	}
}

func dataLoader(v any) router.Loader {
	return func(ctx context.Context, a router.LoaderArgs) (any, error) {
		return v, nil
	}
}

func TestRunAllOrderIndexAligned(t *testing.T) {
	// Loaders resolve in reverse order of invocation; results must still
	// be in match-list order.
	slow := func(d time.Duration, v any) router.Loader {
		return func(ctx context.Context, a router.LoaderArgs) (any, error) {
			time.Sleep(d)
			return v, nil
		}
	}

	matches := []*router.Match{
		matchFor("routes/a", slow(30*time.Millisecond, "a")),
		matchFor("routes/b", slow(15*time.Millisecond, "b")),
		matchFor("routes/c", slow(1*time.Millisecond, "c")),
	}

	results := RunAll(context.Background(), matches, router.Location{Pathname: "/"}, nil)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		s, ok := results[i].(*Success)
		if !ok {
			t.Fatalf("results[%d] = %T, want *Success", i, results[i])
		}
		if s.Data != want {
			t.Errorf("results[%d].Data = %v, want %v", i, s.Data, want)
		}
		if s.RouteID() != matches[i].Route.ID {
			t.Errorf("results[%d].RouteID() = %q, want %q", i, s.RouteID(), matches[i].Route.ID)
		}
	}
}

func TestRunAllNilLoaderYieldsNilSuccess(t *testing.T) {
	matches := []*router.Match{matchFor("routes/layout", nil)}

	results := RunAll(context.Background(), matches, router.Location{}, nil)

	s, ok := results[0].(*Success)
	if !ok || s.Data != nil {
		t.Errorf("results[0] = %#v, want Success(nil)", results[0])
	}
}

func TestRunAllErrorConversion(t *testing.T) {
	boom := errors.New("boom")
	matches := []*router.Match{
		matchFor("routes/plain", func(ctx context.Context, a router.LoaderArgs) (any, error) {
			return nil, boom
		}),
		matchFor("routes/status", func(ctx context.Context, a router.LoaderArgs) (any, error) {
			return nil, &HTTPError{Code: http.StatusForbidden, Message: "nope"}
		}),
	}

	results := RunAll(context.Background(), matches, router.Location{}, nil)

	e0 := results[0].(*Error)
	if e0.Status != http.StatusInternalServerError || !errors.Is(e0.Err, boom) {
		t.Errorf("plain error result = %+v", e0)
	}
	e1 := results[1].(*Error)
	if e1.Status != http.StatusForbidden {
		t.Errorf("status error result = %+v", e1)
	}
}

func TestRunAllPanicBecomesError(t *testing.T) {
	matches := []*router.Match{
		matchFor("routes/panics", func(ctx context.Context, a router.LoaderArgs) (any, error) {
			panic("wild loader")
		}),
	}

	results := RunAll(context.Background(), matches, router.Location{}, nil)

	e, ok := results[0].(*Error)
	if !ok {
		t.Fatalf("results[0] = %T, want *Error", results[0])
	}
	if e.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", e.Status)
	}
}

func TestRunAllControlValues(t *testing.T) {
	matches := []*router.Match{
		matchFor("routes/login", func(ctx context.Context, a router.LoaderArgs) (any, error) {
			return RedirectTo("/login", 302), nil
		}),
		matchFor("routes/created", func(ctx context.Context, a router.LoaderArgs) (any, error) {
			return Status(201), nil
		}),
	}

	results := RunAll(context.Background(), matches, router.Location{}, nil)

	rd, ok := results[0].(*Redirect)
	if !ok || rd.Location != "/login" || rd.Status != 302 {
		t.Errorf("results[0] = %#v", results[0])
	}
	sc, ok := results[1].(*ChangeStatus)
	if !ok || sc.Status != 201 {
		t.Errorf("results[1] = %#v", results[1])
	}
}

func TestRunAllPassesArgs(t *testing.T) {
	var gotParams map[string]string
	var gotSearch string
	var gotLoadCtx any

	m := matchFor("routes/teams/$id", func(ctx context.Context, a router.LoaderArgs) (any, error) {
		gotParams = a.Params
		gotSearch = a.Location.Search
		gotLoadCtx = a.LoadContext
		return nil, nil
	})
	m.Params = map[string]string{"id": "42"}

	RunAll(context.Background(), []*router.Match{m}, router.Location{Pathname: "/teams/42", Search: "?sort=asc"}, "loadctx")

	if gotParams["id"] != "42" {
		t.Errorf("params = %v", gotParams)
	}
	if gotSearch != "?sort=asc" {
		t.Errorf("search = %q", gotSearch)
	}
	if gotLoadCtx != "loadctx" {
		t.Errorf("load context = %v", gotLoadCtx)
	}
}

func TestRunDiffOnlyChangedRoutesRun(t *testing.T) {
	var aCalls, cCalls atomic.Int32

	loaderA := func(ctx context.Context, a router.LoaderArgs) (any, error) {
		aCalls.Add(1)
		return "a", nil
	}
	loaderC := func(ctx context.Context, a router.LoaderArgs) (any, error) {
		cCalls.Add(1)
		return "c", nil
	}

	previous := []*router.Match{
		matchFor("routes/a", loaderA),
		matchFor("routes/b", dataLoader("b")),
	}
	next := []*router.Match{
		matchFor("routes/a", loaderA),
		matchFor("routes/c", loaderC),
	}

	results := RunDiff(context.Background(), next, previous, router.Location{}, nil)

	if _, ok := results[0].(*Unchanged); !ok {
		t.Errorf("results[0] = %T, want *Unchanged", results[0])
	}
	if s, ok := results[1].(*Success); !ok || s.Data != "c" {
		t.Errorf("results[1] = %#v, want Success(c)", results[1])
	}
	if aCalls.Load() != 0 {
		t.Errorf("unchanged route's loader ran %d times, want 0", aCalls.Load())
	}
	if cCalls.Load() != 1 {
		t.Errorf("new route's loader ran %d times, want 1", cCalls.Load())
	}
}

func TestRunDiffLoaderIdentityChange(t *testing.T) {
	oldLoader := dataLoader("old")
	newLoader := dataLoader("new")

	previous := []*router.Match{matchFor("routes/a", oldLoader)}
	next := []*router.Match{matchFor("routes/a", newLoader)}

	results := RunDiff(context.Background(), next, previous, router.Location{}, nil)

	if s, ok := results[0].(*Success); !ok || s.Data != "new" {
		t.Errorf("results[0] = %#v, want re-run with new loader", results[0])
	}
}

func TestRunDiffPositionMatters(t *testing.T) {
	shared := dataLoader("x")

	// Same route id exists in both lists but at a different depth.
	previous := []*router.Match{
		matchFor("routes/other", nil),
		matchFor("routes/x", shared),
	}
	next := []*router.Match{
		matchFor("routes/x", shared),
	}

	results := RunDiff(context.Background(), next, previous, router.Location{}, nil)

	if _, ok := results[0].(*Unchanged); ok {
		t.Error("route at a different position must be re-invoked")
	}
}

func TestScanPrecedenceIsOrdered(t *testing.T) {
	results := []Result{
		&Success{Route: "routes/a", Data: 1},
		&ChangeStatus{Route: "routes/b", Status: 201},
		&Error{Route: "routes/c", Err: errors.New("x"), Status: 500},
		&Redirect{Route: "routes/d", Location: "/first", Status: 302},
		&Redirect{Route: "routes/e", Location: "/second", Status: 301},
	}

	if rd := FirstRedirect(results); rd == nil || rd.Location != "/first" {
		t.Errorf("FirstRedirect = %+v, want /first (first wins)", rd)
	}
	if e := FirstError(results); e == nil || e.Route != "routes/c" {
		t.Errorf("FirstError = %+v", e)
	}
	if sc := FirstStatusChange(results); sc == nil || sc.Status != 201 {
		t.Errorf("FirstStatusChange = %+v", sc)
	}
}

func TestScanEmpty(t *testing.T) {
	if FirstRedirect(nil) != nil || FirstError(nil) != nil || FirstStatusChange(nil) != nil {
		t.Error("scans over empty results should return nil")
	}
}

func TestHTTPError(t *testing.T) {
	inner := errors.New("db down")
	err := &HTTPError{Code: 503, Err: inner}

	if err.Error() != "db down" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.StatusCode() != 503 {
		t.Errorf("StatusCode() = %d", err.StatusCode())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should find wrapped error")
	}

	msgOnly := &HTTPError{Code: 404, Message: "gone"}
	if msgOnly.Error() != "gone" {
		t.Errorf("Error() = %q", msgOnly.Error())
	}
	bare := &HTTPError{Code: 404}
	if bare.Error() != http.StatusText(404) {
		t.Errorf("Error() = %q", bare.Error())
	}
}
