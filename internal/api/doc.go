// Package api serves the paper catalog, the canvas library and the export
// pipeline as a local JSON HTTP API.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/paper-sizes
//	GET    /api/paper-sizes/{id}      unknown ids resolve to the default size
//	GET    /api/canvases
//	POST   /api/canvases              {"name": "..."}
//	GET    /api/canvases/{id}
//	PATCH  /api/canvases/{id}         {"name": "..."}
//	DELETE /api/canvases/{id}
//	POST   /api/export                returns application/pdf as an attachment
//
// Export answers 409 while the same surface is already exporting and 422
// with a single retryable message when capture or encoding fails.
package api
