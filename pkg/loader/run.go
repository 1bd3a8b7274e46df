package loader

import (
	"context"
	"reflect"
	"sync"

	"github.com/remix-go/remix/pkg/router"
)

// RunAll invokes the loader of every match concurrently and returns one
// Result per match, index-aligned with the match list regardless of the
// order in which loaders finish. Matches without a loader yield Success
// with nil data. RunAll does not return until every loader has settled; no
// timeout is imposed beyond what ctx carries.
func RunAll(ctx context.Context, matches []*router.Match, loc router.Location, loadContext any) []Result {
	results := make([]Result, len(matches))

	var wg sync.WaitGroup
	for i, m := range matches {
		if m.Route.Loader == nil {
			results[i] = &Success{Route: m.Route.ID}
			continue
		}

		wg.Add(1)
		go func(i int, m *router.Match) {
			defer wg.Done()
			results[i] = runOne(ctx, m, loc, loadContext)
		}(i, m)
	}
	wg.Wait()

	return results
}

// RunDiff is the incremental strategy for navigations that carry a
// previous location. Only routes whose (id, loader identity) pair is not
// found at the same position in the previous match list are re-invoked;
// all other routes short-circuit to Unchanged and the client keeps the
// data it already holds.
func RunDiff(ctx context.Context, matches, previous []*router.Match, loc router.Location, loadContext any) []Result {
	results := make([]Result, len(matches))

	var wg sync.WaitGroup
	for i, m := range matches {
		if i < len(previous) && sameRouteLoader(m, previous[i]) {
			results[i] = &Unchanged{Route: m.Route.ID}
			continue
		}
		if m.Route.Loader == nil {
			results[i] = &Success{Route: m.Route.ID}
			continue
		}

		wg.Add(1)
		go func(i int, m *router.Match) {
			defer wg.Done()
			results[i] = runOne(ctx, m, loc, loadContext)
		}(i, m)
	}
	wg.Wait()

	return results
}

// runOne executes a single loader, converting errors and panics into Error
// results.
func runOne(ctx context.Context, m *router.Match, loc router.Location, loadContext any) (result Result) {
	defer func() {
		if v := recover(); v != nil {
			result = classify(m.Route.ID, nil, panicError(v))
		}
	}()

	value, err := m.Route.Loader(ctx, router.LoaderArgs{
		Location:    loc,
		Params:      m.Params,
		LoadContext: loadContext,
	})
	return classify(m.Route.ID, value, err)
}

// sameRouteLoader reports whether two matches at the same nesting depth
// refer to the same route with the same loader, meaning the route was
// unaffected by the navigation.
func sameRouteLoader(next, prev *router.Match) bool {
	if next.Route.ID != prev.Route.ID {
		return false
	}
	nl, pl := next.Route.Loader, prev.Route.Loader
	if (nl == nil) != (pl == nil) {
		return false
	}
	if nl == nil {
		return true
	}
	return reflect.ValueOf(nl).Pointer() == reflect.ValueOf(pl).Pointer()
}
