package remix

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/remix-go/remix/pkg/entry"
	"github.com/remix-go/remix/pkg/loader"
	"github.com/remix-go/remix/pkg/manifest"
	"github.com/remix-go/remix/pkg/router"
)

// Reserved URL prefixes, matched as exact string prefixes on the raw
// request path.
const (
	// DataPrefix marks incremental data-fetch requests.
	DataPrefix = "/__remix_data"

	// PatchPrefix marks manifest-patch requests.
	PatchPrefix = "/__remix_patch"
)

// =============================================================================
// Data-Fetch Handler
// =============================================================================

// dataResult is one per-route entry in a data-fetch response, index-aligned
// with the match list. Type discriminates the loader outcome; redirects and
// status changes are surfaced here as payload entries, not as top-level
// HTTP responses, so callers must inspect the payload.
type dataResult struct {
	RouteID  string `json:"routeId"`
	Type     string `json:"type"`
	Data     any    `json:"data,omitempty"`
	Location string `json:"location,omitempty"`
	Status   int    `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

// serveData handles /__remix_data requests. Query params: path (required)
// and from (optional previous path, enabling the diff strategy).
func (a *App) serveData(w http.ResponseWriter, r *http.Request, init *serverInit) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Missing ?path"})
		return
	}

	loc := router.ParseLocation(path)
	matches := router.MatchRoutes(a.config.Routes, loc.Pathname)
	if matches == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No routes matched"})
		return
	}

	var results []loader.Result
	if from := q.Get("from"); from != "" {
		previous := router.MatchRoutes(a.config.Routes, router.ParseLocation(from).Pathname)
		results = loader.RunDiff(r.Context(), matches, previous, loc, a.loadContext(r))
	} else {
		results = loader.RunAll(r.Context(), matches, loc, a.loadContext(r))
	}

	entries := make([]dataResult, len(results))
	for i, res := range results {
		entries[i] = encodeResult(res)
	}
	writeJSON(w, http.StatusOK, entries)
}

// encodeResult converts a loader result into its wire form.
func encodeResult(res loader.Result) dataResult {
	out := dataResult{RouteID: res.RouteID()}
	switch v := res.(type) {
	case *loader.Success:
		out.Type = "data"
		out.Data = v.Data
	case *loader.Redirect:
		out.Type = "redirect"
		out.Location = v.Location
		out.Status = v.Status
	case *loader.Error:
		out.Type = "error"
		out.Error = v.Err.Error()
		out.Status = v.Status
	case *loader.ChangeStatus:
		out.Type = "status"
		out.Status = v.Status
	case *loader.Unchanged:
		out.Type = "unchanged"
	}
	return out
}

// =============================================================================
// Patch Handler
// =============================================================================

// patchResponse is the body of a successful manifest-patch response. Build
// is the browser manifest sliced to exactly the matched route ids, with no
// entry-point addition; Routes lets the client lazily register routes it
// has not seen yet.
type patchResponse struct {
	Build  manifest.Manifest          `json:"build"`
	Routes map[string]entry.RouteInfo `json:"routes"`
}

// servePatch handles /__remix_patch requests. Query param: path (required).
func (a *App) servePatch(w http.ResponseWriter, r *http.Request, init *serverInit) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Missing ?path"})
		return
	}

	matches := router.MatchRoutes(a.config.Routes, router.ParseLocation(path).Pathname)
	if matches == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "No matches found for %s", path)
		return
	}

	ids := matchedIDs(matches)
	writeJSON(w, http.StatusOK, patchResponse{
		Build:  manifest.Slice(init.browserManifest, ids),
		Routes: routeManifest(matches),
	})
}

// =============================================================================
// HTML Handler
// =============================================================================

// serveHTML handles full HTML navigations: match, load, intercept
// redirect/error/status outcomes, slice the manifest, and delegate byte
// production to the entry module.
func (a *App) serveHTML(w http.ResponseWriter, r *http.Request, init *serverInit) {
	loc := router.ParseLocation(r.URL.RequestURI())

	status := http.StatusOK
	matches := router.MatchRoutes(a.config.Routes, loc.Pathname)

	var results []loader.Result
	if matches == nil {
		// Unknown URL: render the 404 pseudo-route, loaders skipped.
		matches = router.NotFoundMatch(loc.Pathname)
		status = http.StatusNotFound
	} else {
		results = loader.RunAll(r.Context(), matches, loc, a.loadContext(r))
	}

	if redirect := loader.FirstRedirect(results); redirect != nil {
		// Nothing else runs: manifests and rendering are skipped entirely.
		w.Header().Set("Location", redirect.Location)
		w.WriteHeader(redirect.Status)
		fmt.Fprintf(w, "Redirecting to %s", redirect.Location)
		return
	}

	if errResult := loader.FirstError(results); errResult != nil {
		// Partial data from sibling routes is dropped with the matches.
		a.logger.Error("loader failed",
			"route", errResult.Route,
			"path", loc.Pathname,
			"error", errResult.Err)
		status = errResult.Status
		matches = router.ServerErrorMatch(loc.Pathname)
		results = nil
	} else if statusResult := loader.FirstStatusChange(results); statusResult != nil {
		status = statusResult.Status
		matches = router.StatusMatch(statusResult.Status, loc.Pathname)
		results = nil
	}

	c := entry.NewContext(init.modules)
	c.MatchedRouteIDs = matchedIDs(matches)
	c.RouteManifest = routeManifest(matches)
	for _, m := range matches {
		c.RouteParams[m.Route.ID] = m.Params
	}
	for _, res := range results {
		if s, ok := res.(*loader.Success); ok {
			c.RouteData[s.Route] = s.Data
		}
	}
	c.AssetManifest = manifest.Slice(init.browserManifest,
		append([]string{manifest.BrowserEntry}, c.MatchedRouteIDs...))

	if err := init.entry(w, r, status, c); err != nil {
		a.logger.Error("entry module failed", "path", loc.Pathname, "error", err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func matchedIDs(matches []*router.Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.Route.ID
	}
	return ids
}

// routeManifest builds the render-relevant route subset for a match list.
// The parent of each entry is the preceding match in the branch.
func routeManifest(matches []*router.Match) map[string]entry.RouteInfo {
	out := make(map[string]entry.RouteInfo, len(matches))
	for i, m := range matches {
		info := entry.RouteInfo{
			ID:        m.Route.ID,
			Path:      m.Route.Path,
			Component: m.Route.Component,
		}
		if i > 0 {
			info.ParentID = matches[i-1].Route.ID
		}
		out[m.Route.ID] = info
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
