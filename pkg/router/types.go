package router

import (
	"context"
	"net/url"
)

// Location is the parsed form of a request URL. It is derived once per
// request and immutable afterwards.
type Location struct {
	// Pathname is the URL path (always begins with "/").
	Pathname string

	// Search is the query string including the leading "?", or "".
	Search string

	// Hash is the fragment including the leading "#", or "".
	Hash string

	// State is opaque navigation state. The server never supplies it from
	// history state, only from a raw URL string, so it is always nil here.
	State any

	// Key identifies the history entry ("default" when parsed from a raw
	// URL string).
	Key string
}

// ParseLocation parses a raw URL string into a Location.
func ParseLocation(raw string) Location {
	loc := Location{Pathname: "/", Key: "default"}

	u, err := url.Parse(raw)
	if err != nil {
		return loc
	}

	if u.Path != "" {
		loc.Pathname = u.Path
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.Fragment
	}
	return loc
}

// LoaderArgs carries everything a route loader may need.
type LoaderArgs struct {
	// Location is the location being navigated to.
	Location Location

	// Params are the URL params extracted for this route's match.
	Params map[string]string

	// LoadContext is the opaque per-request value the host application
	// passed to the dispatcher (database handles, session info, etc.).
	LoadContext any
}

// Loader produces the data for one route at a given location.
//
// A loader returns either plain JSON-serializable data or one of the
// control values from the loader package (loader.RedirectTo,
// loader.Status). Returning an error converts to an error result;
// errors implementing StatusCode() int set the HTTP status.
type Loader func(ctx context.Context, args LoaderArgs) (any, error)

// Route is one node of the application route tree. Routes nest; a child's
// path is relative to its parent. An empty path marks an index route.
type Route struct {
	// ID uniquely identifies the route (e.g., "routes/teams/$id").
	ID string

	// Path is the URL pattern relative to the parent route. Segments
	// starting with ":" are params; a segment starting with "*" is a
	// catch-all that consumes the rest of the URL.
	Path string

	// Component references the client component bundle for this route.
	Component string

	// Loader is the route's data function, or nil.
	Loader Loader

	// Children are nested routes rendered inside this route's outlet.
	Children []*Route
}

// Match is a route bound to concrete URL params for one request.
type Match struct {
	// Pathname is the portion of the URL matched by this route and its
	// ancestors (ancestors have shorter pathnames).
	Pathname string

	// Params are the URL params accumulated down the branch.
	Params map[string]string

	// Route is the matched route definition.
	Route *Route
}
