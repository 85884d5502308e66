// Package api provides the HTTP interface to the volume controller.
//
// The wire format is deliberately small and fixed: success bodies carry
// status, level, and a human-readable message; every error is a single
// {"error": "..."} object. Remote clients parse these bodies verbatim, so
// changing a message string is a breaking change.
//
// Routes:
//
//	GET  /                 usage page (HTML)
//	GET  /health           service and audio status
//	GET  /volume           current volume level
//	POST /volume           set volume level
//	GET  /volume/history   recent volume changes (when history is enabled)
//
// The server composes chi with a small middleware chain (request ID,
// logging, panic recovery, CORS, body size limit) and delegates all domain
// behaviour to the volume package.
package api
