// internal/app/features/activities/routes.go
package activities

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the activity routes on the given router. Callers mount
// this under /activities behind the session middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}
