// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/filestore"
	"github.com/projecthubhq/projecthub/internal/app/system/respond"
	"github.com/projecthubhq/projecthub/internal/app/system/timeouts"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxUploadBytes bounds a single project file upload.
const maxUploadBytes = 32 << 20

// Service is the slice of the mutation service this feature uses.
type Service interface {
	CreateProject(ctx context.Context, actor authz.Actor, in mutation.CreateProjectInput) (models.Project, error)
	GetProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (mutation.ProjectView, error)
	ListProjects(ctx context.Context, actor authz.Actor) ([]mutation.ProjectView, error)
	UpdateProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in mutation.UpdateProjectInput) (models.Project, error)
	DeleteProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	AddMember(ctx context.Context, actor authz.Actor, projectID, userID primitive.ObjectID) (mutation.ProjectView, error)
	RemoveMember(ctx context.Context, actor authz.Actor, projectID, userID primitive.ObjectID) error
	UpdateProgress(ctx context.Context, actor authz.Actor, id primitive.ObjectID, override *int) (int, error)
	AddProjectFile(ctx context.Context, actor authz.Actor, id primitive.ObjectID, saved models.FileRef) (models.FileRef, error)
	ListActivities(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]activitystore.Entry, error)
}

// Handler owns all project handlers.
type Handler struct {
	Svc   Service
	Files filestore.Store
	Log   *zap.Logger
}

// NewHandler constructs a project Handler.
func NewHandler(svc Service, files filestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Files: files, Log: logger}
}

// actorOr401 resolves the request actor or writes a 401.
func actorOr401(w http.ResponseWriter, r *http.Request) (authz.Actor, bool) {
	actor, ok := authz.ActorCtx(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}

// pathID parses the {id} route parameter or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Faculty     string     `json:"faculty"`
	Deadline    *time.Time `json:"deadline"`
}

// Create handles POST /projects.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := mutation.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Faculty != "" {
		id, err := primitive.ObjectIDFromHex(req.Faculty)
		if err != nil {
			respond.Fail(w, http.StatusBadRequest, "invalid faculty id")
			return
		}
		in.Faculty = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Svc.CreateProject(ctx, actor, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, p)
}

// List handles GET /projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListProjects(ctx, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Get handles GET /projects/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.Svc.GetProject(ctx, actor, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, view)
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

// Update handles PUT /projects/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Svc.UpdateProject(ctx, actor, id, mutation.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, p)
}

// Delete handles DELETE /projects/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Svc.DeleteProject(ctx, actor, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]string{"id": id.Hex()})
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// AddMember handles POST /projects/{id}/members.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Svc.AddMember(ctx, actor, id, userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, view)
}

// RemoveMember handles DELETE /projects/{id}/members/{memberID}.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "memberID")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.RemoveMember(ctx, actor, id, memberID); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]string{"id": memberID.Hex()})
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

// UpdateProgress handles PUT /projects/{id}/progress.
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pct, err := h.Svc.UpdateProgress(ctx, actor, id, req.Progress)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]int{"progress": pct})
}

// UploadFile handles POST /projects/{id}/files. Multipart, field "file".
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	saved, err := h.Files.Save(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ref, err := h.Svc.AddProjectFile(ctx, actor, id, models.FileRef{
		StoredName:   saved.StoredName,
		OriginalName: saved.OriginalName,
		Path:         saved.Path,
		Size:         saved.Size,
		MimeType:     saved.MimeType,
	})
	if err != nil {
		// The document write failed; do not leave the stored bytes behind.
		if delErr := h.Files.Delete(ctx, saved.Path); delErr != nil {
			h.Log.Warn("orphaned upload cleanup failed",
				zap.String("path", saved.Path), zap.Error(delErr))
		}
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, ref)
}

// Activities handles GET /projects/{id}/activities.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	feed, err := h.Svc.ListActivities(ctx, actor, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, feed)
}
