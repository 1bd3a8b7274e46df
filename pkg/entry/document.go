package entry

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/remix-go/remix/pkg/manifest"
)

// DefaultDocument is the fallback entry module. It writes a minimal HTML
// shell: script tags for every bundle in the sliced manifest, the
// embedded client payload, and a root mount element. Applications replace
// it by setting their own entry module.
func DefaultDocument(w http.ResponseWriter, r *http.Request, status int, c *Context) error {
	payload, err := c.ClientPayload()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\"en\">\n"); err != nil {
		return err
	}
	if err := writeHead(w, c.AssetManifest); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n  <div id=\"root\"></div>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  <script>window.__remixContext = %s;</script>\n", payload); err != nil {
		return err
	}
	if err := writeBundleScripts(w, c.AssetManifest); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</body>\n</html>\n")
	return err
}

// writeHead renders the document head with modulepreload links for every
// import the sliced manifest names.
func writeHead(w io.Writer, m manifest.Manifest) error {
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	for _, name := range orderedNames(m) {
		e := m[name]
		if e == nil {
			continue
		}
		for _, imp := range e.Imports {
			if _, err := fmt.Fprintf(w, "  <link rel=\"modulepreload\" href=\"%s\">\n", escapeAttr(imp)); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeBundleScripts renders one module script tag per manifest entry,
// browser entry point first. Entries sliced in as null (not yet built)
// are skipped.
func writeBundleScripts(w io.Writer, m manifest.Manifest) error {
	for _, name := range orderedNames(m) {
		e := m[name]
		if e == nil || e.URL == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  <script type=\"module\" src=\"%s\"></script>\n", escapeAttr(e.URL)); err != nil {
			return err
		}
	}
	return nil
}

// orderedNames returns manifest keys with the browser entry first and the
// rest sorted for deterministic output.
func orderedNames(m manifest.Manifest) []string {
	names := make([]string, 0, len(m))
	if _, ok := m[manifest.BrowserEntry]; ok {
		names = append(names, manifest.BrowserEntry)
	}
	rest := make([]string, 0, len(m))
	for name := range m {
		if name != manifest.BrowserEntry {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
