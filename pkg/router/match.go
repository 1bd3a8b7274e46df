package router

import "strings"

// MatchRoutes matches a pathname against a route tree and returns the
// matched branch ordered outer-to-inner (ancestor routes before descendant
// routes), or nil when nothing matches.
//
// Sibling routes are tried in definition order; the first branch that
// consumes the whole pathname wins. A route with children matches a fully
// consumed URL only through an index child (empty path) or by being the
// final consuming route itself.
func MatchRoutes(routes []*Route, pathname string) []*Match {
	segments := splitPath(pathname)

	for _, route := range routes {
		if branch := matchBranch(route, segments, "", map[string]string{}); branch != nil {
			return branch
		}
	}
	return nil
}

// matchBranch tries to match one route and, recursively, its children
// against the remaining segments. matched is the pathname consumed so far.
func matchBranch(route *Route, segments []string, matched string, params map[string]string) []*Match {
	rest, consumed, branchParams, ok := consumePattern(route.Path, segments, params)
	if !ok {
		return nil
	}

	pathname := matched + consumed
	if pathname == "" {
		pathname = "/"
	}

	self := &Match{
		Pathname: pathname,
		Params:   branchParams,
		Route:    route,
	}

	if len(rest) == 0 {
		if len(route.Children) == 0 {
			return []*Match{self}
		}
		// URL ends at a layout route; it matches only through an index
		// child.
		for _, child := range route.Children {
			if child.Path == "" && len(child.Children) == 0 {
				index := &Match{
					Pathname: pathname,
					Params:   branchParams,
					Route:    child,
				}
				return []*Match{self, index}
			}
		}
		return nil
	}

	for _, child := range route.Children {
		if tail := matchBranch(child, rest, pathname, branchParams); tail != nil {
			return append([]*Match{self}, tail...)
		}
	}
	return nil
}

// consumePattern matches a route path pattern against the leading segments.
// It returns the unconsumed segments, the consumed pathname fragment
// (with a leading "/" per segment), and a fresh params map extended with
// any params the pattern binds. Input params are never mutated.
func consumePattern(pattern string, segments []string, params map[string]string) (rest []string, consumed string, out map[string]string, ok bool) {
	out = params

	patSegs := splitPath(pattern)
	if len(patSegs) == 0 {
		return segments, "", out, true
	}

	var sb strings.Builder
	for i, pat := range patSegs {
		if strings.HasPrefix(pat, "*") {
			// Catch-all consumes everything that is left.
			name := pat[1:]
			if name == "" {
				name = "*"
			}
			out = cloneParams(out)
			out[name] = strings.Join(segments[i:], "/")
			for _, seg := range segments[i:] {
				sb.WriteString("/")
				sb.WriteString(seg)
			}
			return nil, sb.String(), out, true
		}

		if i >= len(segments) {
			return nil, "", nil, false
		}
		seg := segments[i]

		if strings.HasPrefix(pat, ":") {
			out = cloneParams(out)
			out[pat[1:]] = seg
		} else if pat != seg {
			return nil, "", nil, false
		}

		sb.WriteString("/")
		sb.WriteString(seg)
	}

	return segments[len(patSegs):], sb.String(), out, true
}

// cloneParams copies a params map so sibling branches never observe each
// other's bindings.
func cloneParams(params map[string]string) map[string]string {
	cloned := make(map[string]string, len(params)+1)
	for k, v := range params {
		cloned[k] = v
	}
	return cloned
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
