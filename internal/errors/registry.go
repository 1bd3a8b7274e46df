package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (R100-R119)
	// ============================================

	"R100": {
		Category: CategoryConfig,
		Message:  "No remix.json found",
		Detail:   "Every Remix app needs a remix.json at the project root describing the public path, build directory, and dev server settings.",
		DocURL:   "https://remix-go.dev/docs/errors/R100",
	},
	"R101": {
		Category: CategoryConfig,
		Message:  "Invalid remix.json",
		Detail:   "remix.json exists but could not be parsed or contains invalid values.",
		DocURL:   "https://remix-go.dev/docs/errors/R101",
	},
	"R102": {
		Category: CategoryConfig,
		Message:  "Invalid dev server port",
		Detail:   "The dev server port must be between 0 and 65535.",
		DocURL:   "https://remix-go.dev/docs/errors/R102",
	},

	// ============================================
	// Build / Manifest Errors (R120-R139)
	// ============================================

	"R120": {
		Category: CategoryBuild,
		Message:  "Build manifest not found",
		Detail:   "No browser build manifest was found in the build directory. The client bundle must be built before the server can serve requests.",
		DocURL:   "https://remix-go.dev/docs/errors/R120",
	},
	"R121": {
		Category: CategoryBuild,
		Message:  "Invalid build manifest",
		Detail:   "The build manifest exists but could not be parsed as JSON.",
		DocURL:   "https://remix-go.dev/docs/errors/R121",
	},

	// ============================================
	// Module Errors (R140-R159)
	// ============================================

	"R140": {
		Category: CategoryModule,
		Message:  "Route module not registered",
		Detail:   "A route in the route tree has no registered module. Every route id must have a module registered before the server initializes.",
		DocURL:   "https://remix-go.dev/docs/errors/R140",
	},
	"R141": {
		Category: CategoryModule,
		Message:  "Route module factory failed",
		Detail:   "The factory for a registered route module returned nil.",
		DocURL:   "https://remix-go.dev/docs/errors/R141",
	},

	// ============================================
	// Runtime Errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRuntime,
		Message:  "Server initialization failed",
		Detail:   "The per-process server initialization (config, manifests, route modules) could not be completed.",
		DocURL:   "https://remix-go.dev/docs/errors/R001",
	},

	// ============================================
	// Deploy Errors (R160-R179)
	// ============================================

	"R160": {
		Category: CategoryDeploy,
		Message:  "Deploy failed",
		Detail:   "One or more build artifacts could not be uploaded.",
		DocURL:   "https://remix-go.dev/docs/errors/R160",
	},
}
