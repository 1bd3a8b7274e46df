package router

import "strconv"

// Synthetic route ids. These pseudo-routes are constructed on the fly when
// no real route matches or when a loader result replaces the match list;
// they carry no loader.
const (
	NotFoundID    = "routes/404"
	ServerErrorID = "routes/500"
)

// StatusID returns the synthetic route id for a status-code override page.
func StatusID(code int) string {
	return "routes/" + strconv.Itoa(code)
}

// NotFoundMatch returns a fresh single-element match list for the 404
// pseudo-route.
func NotFoundMatch(pathname string) []*Match {
	return syntheticMatch(NotFoundID, pathname)
}

// ServerErrorMatch returns a fresh single-element match list for the 500
// pseudo-route. All real matches are discarded by the caller.
func ServerErrorMatch(pathname string) []*Match {
	return syntheticMatch(ServerErrorID, pathname)
}

// StatusMatch returns a fresh single-element match list for a status-code
// override pseudo-route (routes/201, routes/418, ...).
func StatusMatch(code int, pathname string) []*Match {
	return syntheticMatch(StatusID(code), pathname)
}

// syntheticMatch builds a new match list; it never mutates or reuses an
// existing one.
func syntheticMatch(id, pathname string) []*Match {
	return []*Match{{
		Pathname: pathname,
		Params:   map[string]string{},
		Route: &Route{
			ID:        id,
			Path:      pathname,
			Component: id,
		},
	}}
}
