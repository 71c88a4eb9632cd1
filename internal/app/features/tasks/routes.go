// internal/app/features/tasks/routes.go
package tasks

import "github.com/go-chi/chi/v5"

// MountRoutes mounts all task routes on the given router. Callers mount
// this under /tasks behind the session middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
