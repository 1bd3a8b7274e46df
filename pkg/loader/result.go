// Package loader runs route data functions and models their outcomes.
//
// Every matched route produces exactly one Result, index-aligned with the
// match list. A result is one of a closed set of variants: Success,
// Redirect, Error, ChangeStatus, or (for incremental navigations)
// Unchanged. The request pipeline scans a result set with a fixed
// precedence: Redirect beats Error beats ChangeStatus beats Success.
package loader

import (
	"fmt"
	"net/http"
)

// Result is the outcome of running one route's loader. The variant set is
// closed; the unexported method keeps external packages from adding cases.
type Result interface {
	// RouteID returns the id of the route this result belongs to.
	RouteID() string

	resultVariant()
}

// Success carries a loader's plain data payload. Routes without a loader
// yield Success with nil data.
type Success struct {
	Route string
	Data  any
}

// Redirect tells the client to navigate elsewhere.
type Redirect struct {
	Route    string
	Location string
	Status   int
}

// Error carries a failed loader's error and the HTTP status to respond
// with.
type Error struct {
	Route  string
	Err    error
	Status int
}

// ChangeStatus overrides the response status code without carrying data.
type ChangeStatus struct {
	Route  string
	Status int
}

// Unchanged marks a route whose data was not re-loaded during an
// incremental navigation; the client keeps the data it already has.
type Unchanged struct {
	Route string
}

func (r *Success) RouteID() string      { return r.Route }
func (r *Redirect) RouteID() string     { return r.Route }
func (r *Error) RouteID() string        { return r.Route }
func (r *ChangeStatus) RouteID() string { return r.Route }
func (r *Unchanged) RouteID() string    { return r.Route }

func (*Success) resultVariant()      {}
func (*Redirect) resultVariant()     {}
func (*Error) resultVariant()        {}
func (*ChangeStatus) resultVariant() {}
func (*Unchanged) resultVariant()    {}

// =============================================================================
// Loader control values
// =============================================================================

// redirectValue is the control value returned by RedirectTo.
type redirectValue struct {
	location string
	status   int
}

// statusValue is the control value returned by Status.
type statusValue struct {
	status int
}

// RedirectTo returns a control value a loader can return to redirect the
// navigation instead of producing data.
//
//	func requireUser(ctx context.Context, a router.LoaderArgs) (any, error) {
//	    if !loggedIn(a.LoadContext) {
//	        return loader.RedirectTo("/login", http.StatusFound), nil
//	    }
//	    ...
//	}
func RedirectTo(location string, status int) any {
	if status == 0 {
		status = http.StatusFound
	}
	return redirectValue{location: location, status: status}
}

// Status returns a control value a loader can return to override the
// response status code without data (e.g., 201 after an upsert).
func Status(code int) any {
	return statusValue{status: code}
}

// HTTPError is an error with an associated HTTP status code. Loaders
// return it (or any error implementing StatusCode() int) to control the
// status of the error response.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Code }

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HTTPError) Unwrap() error { return e.Err }

// classify converts a loader's return values into a Result.
func classify(routeID string, value any, err error) Result {
	if err != nil {
		status := http.StatusInternalServerError
		if sc, ok := err.(interface{ StatusCode() int }); ok {
			status = sc.StatusCode()
		}
		return &Error{Route: routeID, Err: err, Status: status}
	}

	switch v := value.(type) {
	case redirectValue:
		return &Redirect{Route: routeID, Location: v.location, Status: v.status}
	case statusValue:
		return &ChangeStatus{Route: routeID, Status: v.status}
	default:
		return &Success{Route: routeID, Data: value}
	}
}

// =============================================================================
// Result scanning
// =============================================================================

// FirstRedirect returns the first Redirect in match-list order, or nil.
// When several loaders redirect, the first one wins.
func FirstRedirect(results []Result) *Redirect {
	for _, r := range results {
		if rd, ok := r.(*Redirect); ok {
			return rd
		}
	}
	return nil
}

// FirstError returns the first Error in match-list order, or nil.
func FirstError(results []Result) *Error {
	for _, r := range results {
		if e, ok := r.(*Error); ok {
			return e
		}
	}
	return nil
}

// FirstStatusChange returns the first ChangeStatus in match-list order, or
// nil.
func FirstStatusChange(results []Result) *ChangeStatus {
	for _, r := range results {
		if sc, ok := r.(*ChangeStatus); ok {
			return sc
		}
	}
	return nil
}

// panicError wraps a recovered loader panic.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("loader panic: %w", err)
	}
	return fmt.Errorf("loader panic: %v", v)
}
