package rag

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers RAG routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/rag", func(r chi.Router) {
		r.Post("/ask", h.Ask)
		r.Get("/health", h.Health)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", h.AddDocument)
			r.Post("/batch", h.AddDocuments)
			r.Post("/upload", h.UploadDocuments)
		})
	})
}
