// Package manifest provides runtime access to build manifests.
//
// The build step writes a manifest.json mapping entry names (route ids and
// special names like "__entry_browser__") to the bundle metadata the client
// needs to load them:
//
//	{
//	  "__entry_browser__": {"url": "/build/entry.a1b2c3.js"},
//	  "routes/index": {"url": "/build/routes/index.e5f6a7.js", "imports": ["/build/chunk.99ff.js"]}
//	}
//
// The server never interprets bundle metadata; it only slices the manifest
// down to what a specific navigation needs.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/remix-go/remix/internal/errors"
)

// BrowserEntry is the entry name of the browser entry bundle. It is
// prepended to the matched route ids when slicing the manifest for a full
// HTML navigation.
const BrowserEntry = "__entry_browser__"

// Entry holds the bundle metadata for one manifest entry. The pipeline
// treats it as opaque; fields exist only so the default document renderer
// can emit script tags.
type Entry struct {
	// URL is the public URL of the bundle.
	URL string `json:"url"`

	// Imports lists URLs of chunks the bundle depends on.
	Imports []string `json:"imports,omitempty"`
}

// Manifest maps entry names to bundle metadata. A nil value for a present
// key marks an entry that was requested but does not exist in the build;
// the client relies on the key being present.
type Manifest map[string]*Entry

// Load reads a manifest.json file and returns a Manifest.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R120").
				WithDetail("No manifest found at " + path).
				WithSuggestion("Build the client bundle before starting the server")
		}
		return nil, errors.New("R120").Wrap(err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("R121").Wrap(err)
	}
	return m, nil
}

// Slice returns a new manifest containing exactly the given entry names.
// Values are carried over untouched. A name absent from the source appears
// in the result with a nil value (serialized as JSON null) rather than
// being omitted; partial manifests may reference not-yet-built chunks and
// the client needs the key to exist to detect that.
//
// Slice never mutates the source manifest.
func Slice(m Manifest, names []string) Manifest {
	sliced := make(Manifest, len(names))
	for _, name := range names {
		sliced[name] = m[name]
	}
	return sliced
}
