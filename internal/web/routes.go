package web

import "github.com/go-chi/chi/v5"

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/strategies", s.strategies)

		r.Post("/layout", s.layout)
		r.Post("/layout/pdf", s.layoutPDF)
		r.Post("/layout/report", s.layoutReport)

		r.Post("/edit/move", s.move)
		r.Post("/edit/rotate", s.rotate)
	})
}
