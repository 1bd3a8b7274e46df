// Package entry assembles the context handed to the server entry module
// and provides a default HTML document renderer.
//
// The request pipeline builds one Context per HTML navigation and
// delegates byte production to the application's entry module. The entry
// module decides what the document looks like; the Context carries
// everything it may need: matched route ids, merged loader data, params,
// the sliced asset manifest, and a synchronous module accessor.
package entry

import (
	"encoding/json"
	"net/http"

	"github.com/remix-go/remix/pkg/manifest"
	"github.com/remix-go/remix/pkg/modules"
)

// Module is the server entry hook. It receives the response writer, the
// original request, the resolved status code, and the assembled Context,
// and is responsible for writing the full response body.
type Module func(w http.ResponseWriter, r *http.Request, status int, c *Context) error

// ModuleReader resolves compiled modules synchronously. *modules.Registry
// satisfies it; the request pipeline usually passes an immutable snapshot
// instead so a concurrent purge cannot be observed mid-render.
type ModuleReader interface {
	Read(id string) *modules.Module
}

// RouteInfo is the render-relevant subset of a route definition, keyed by
// route id in Context.RouteManifest and in manifest-patch responses. The
// client uses it to register routes it has not seen yet.
type RouteInfo struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	ParentID  string `json:"parentId,omitempty"`
	Component string `json:"componentUrl,omitempty"`
}

// Context is the full data structure handed to the entry module for one
// HTML navigation.
type Context struct {
	// AssetManifest is the browser manifest sliced to the entries this
	// navigation needs, browser entry point included.
	AssetManifest manifest.Manifest

	// MatchedRouteIDs lists the final match set, outer-to-inner.
	MatchedRouteIDs []string

	// RouteData maps route id to its loader's data.
	RouteData map[string]any

	// RouteParams maps route id to the URL params bound for it.
	RouteParams map[string]map[string]string

	// RouteManifest maps route id to its render-relevant definition.
	RouteManifest map[string]RouteInfo

	reader ModuleReader
}

// NewContext builds a Context backed by the given module reader.
func NewContext(reader ModuleReader) *Context {
	return &Context{
		RouteData:     make(map[string]any),
		RouteParams:   make(map[string]map[string]string),
		RouteManifest: make(map[string]RouteInfo),
		reader:        reader,
	}
}

// Read returns the compiled module for routeID, synchronously. Rendering
// happens after all loading is done; a module that is not registered at
// this point is a framework misuse, so Read panics rather than degrading
// to an error response.
func (c *Context) Read(routeID string) *modules.Module {
	return c.reader.Read(routeID)
}

// clientPayload is the client-visible subset of the context.
type clientPayload struct {
	Manifest      manifest.Manifest            `json:"manifest"`
	MatchedRoutes []string                     `json:"matchedRouteIds"`
	RouteData     map[string]any               `json:"routeData"`
	RouteParams   map[string]map[string]string `json:"routeParams"`
	RouteManifest map[string]RouteInfo         `json:"routeManifest"`
}

// ClientPayload serializes the client-visible subset of the context for
// embedding inside a <script> element. encoding/json escapes '<', '>',
// '&', U+2028 and U+2029 by default, which is exactly the script-safety
// requirement; no further escaping is applied.
func (c *Context) ClientPayload() (string, error) {
	b, err := json.Marshal(clientPayload{
		Manifest:      c.AssetManifest,
		MatchedRoutes: c.MatchedRouteIDs,
		RouteData:     c.RouteData,
		RouteParams:   c.RouteParams,
		RouteManifest: c.RouteManifest,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
