package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/reload", s.handleReload)

	r.Route("/players", func(r chi.Router) {
		r.Get("/", s.handleListPlayers)
		r.Post("/", s.handleJoin)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleLeave)
			r.Put("/server", s.handleSwitchServer)
			r.Post("/hide", s.handleHide)
			r.Delete("/hide", s.handleUnhide)
			r.Post("/refresh", s.handleRefresh)
			r.Get("/tablist", s.handleTabList)
		})
	})
	return r
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
