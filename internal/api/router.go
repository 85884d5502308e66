package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes builds the router with all middleware and route handlers.
//
// Middleware order matters: request ID first so everything downstream can
// log it, recovery before the handlers so panics become 500 responses.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/volume", func(r chi.Router) {
		r.Get("/", s.handleGetVolume)
		r.Post("/", s.handleSetVolume)
		r.Get("/history", s.handleVolumeHistory)
	})

	return r
}
