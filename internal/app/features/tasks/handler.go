// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/respond"
	"github.com/projecthubhq/projecthub/internal/app/system/timeouts"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service is the slice of the mutation service this feature uses.
type Service interface {
	CreateTask(ctx context.Context, actor authz.Actor, in mutation.CreateTaskInput) (models.Task, error)
	GetTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Task, error)
	UpdateTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in mutation.UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	ListTasks(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]models.Task, error)
}

// Handler owns all task handlers.
type Handler struct {
	Svc Service
	Log *zap.Logger
}

// NewHandler constructs a task Handler.
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

func actorOr401(w http.ResponseWriter, r *http.Request) (authz.Actor, bool) {
	actor, ok := authz.ActorCtx(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type createRequest struct {
	Project     string     `json:"project"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

// Create handles POST /tasks.
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
	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid project id")
		return
	}

	in := mutation.CreateTaskInput{
		Project:     projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}
	if req.AssignedTo != "" {
		assignee, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			respond.Fail(w, http.StatusBadRequest, "invalid assignee id")
			return
		}
		in.AssignedTo = &assignee
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Svc.CreateTask(ctx, actor, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, t)
}

// List handles GET /tasks with an optional ?project= filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	projectID := primitive.NilObjectID
	if raw := r.URL.Query().Get("project"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Fail(w, http.StatusBadRequest, "invalid project id")
			return
		}
		projectID = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListTasks(ctx, actor, projectID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Get handles GET /tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Svc.GetTask(ctx, actor, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, t)
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
}

// Update handles PUT /tasks/{id}. An explicit "assigned_to": "" clears the
// assignee; leaving the field out keeps it.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := mutation.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			var cleared *primitive.ObjectID
			in.AssignedTo = &cleared
		} else {
			assignee, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				respond.Fail(w, http.StatusBadRequest, "invalid assignee id")
				return
			}
			ptr := &assignee
			in.AssignedTo = &ptr
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Svc.UpdateTask(ctx, actor, id, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, t)
}

// Delete handles DELETE /tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.DeleteTask(ctx, actor, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]string{"id": id.Hex()})
}
