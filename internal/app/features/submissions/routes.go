// internal/app/features/submissions/routes.go
package submissions

import "github.com/go-chi/chi/v5"

// MountRoutes mounts all submission routes on the given router. Callers
// mount this under /submissions behind the session middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/review", h.Review)
	r.Delete("/{id}", h.Delete)
}
