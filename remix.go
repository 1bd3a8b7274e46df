// Package remix is the server core for Remix-style applications: a
// request pipeline that matches nested routes, runs per-route data
// loaders concurrently, intercepts redirect/error/status outcomes, slices
// build manifests, and hands an assembled context to the server entry
// module.
//
// This is the recommended import for most applications:
//
//	import "github.com/remix-go/remix"
//
// Usage:
//
//	app := remix.New(remix.Config{
//	    Root: ".",
//	    Routes: []*remix.Route{{
//	        ID: "routes/root",
//	        Children: []*remix.Route{
//	            {ID: "routes/index", Path: "", Loader: loadIndex},
//	        },
//	    }},
//	})
//	http.ListenAndServe(":3000", app)
package remix

import (
	"github.com/remix-go/remix/pkg/loader"
	"github.com/remix-go/remix/pkg/router"
)

// Version is the current framework version.
const Version = "0.3.0"

// =============================================================================
// Routing (re-export from pkg/router)
// =============================================================================

// Route is one node of the nested application route tree.
type Route = router.Route

// Match is a route bound to concrete URL params for one request.
type Match = router.Match

// Loader is a per-route data function.
type Loader = router.Loader

// LoaderArgs carries the location, params, and load context into a loader.
type LoaderArgs = router.LoaderArgs

// =============================================================================
// Loader outcomes (re-export from pkg/loader)
// =============================================================================

// HTTPError is an error with an associated HTTP status code. Returning it
// from a loader controls the status of the error response.
type HTTPError = loader.HTTPError

// Redirect returns a loader value that redirects the navigation instead
// of producing data. A zero status defaults to 302.
//
//	func requireUser(ctx context.Context, a remix.LoaderArgs) (any, error) {
//	    if !loggedIn(a.LoadContext) {
//	        return remix.Redirect("/login", http.StatusFound), nil
//	    }
//	    ...
//	}
func Redirect(location string, status int) any {
	return loader.RedirectTo(location, status)
}

// StatusCode returns a loader value that overrides the response status
// code without carrying data.
func StatusCode(code int) any {
	return loader.Status(code)
}
