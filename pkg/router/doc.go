// Package router defines the application route tree and matches request
// URLs against it.
//
// Routes nest the way layouts nest: matching a URL yields the whole branch,
// ordered outer-to-inner, so ancestor layouts render around descendant
// pages. The matcher is a consumed capability for the request pipeline —
// the pipeline only cares that a pathname maps to an ordered match list.
//
//	routes := []*router.Route{{
//	    ID: "routes/root",
//	    Children: []*router.Route{
//	        {ID: "routes/index", Path: ""},
//	        {ID: "routes/teams/$id", Path: "teams/:id", Loader: loadTeam},
//	    },
//	}}
//
//	matches := router.MatchRoutes(routes, "/teams/42")
package router
