// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

// MountRoutes mounts all project routes on the given router. Callers mount
// this under /projects behind the session middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{memberID}", h.RemoveMember)
	r.Put("/{id}/progress", h.UpdateProgress)
	r.Post("/{id}/files", h.UploadFile)
	r.Get("/{id}/activities", h.Activities)
}
