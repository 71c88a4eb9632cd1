// internal/app/features/submissions/handler.go
package submissions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/filestore"
	"github.com/projecthubhq/projecthub/internal/app/system/respond"
	"github.com/projecthubhq/projecthub/internal/app/system/timeouts"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxSubmissionBytes bounds a whole multipart submission.
const maxSubmissionBytes = 64 << 20

// Service is the slice of the mutation service this feature uses.
type Service interface {
	CreateSubmission(ctx context.Context, actor authz.Actor, in mutation.CreateSubmissionInput) (models.Submission, error)
	GetSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Submission, error)
	ReviewSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in mutation.ReviewInput) (models.Submission, error)
	DeleteSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	ListSubmissions(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]models.Submission, error)
}

// Handler owns all submission handlers.
type Handler struct {
	Svc   Service
	Files filestore.Store
	Log   *zap.Logger
}

// NewHandler constructs a submission Handler.
func NewHandler(svc Service, files filestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Files: files, Log: logger}
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

// Create handles POST /submissions. Multipart: one or more "files" parts
// plus "project" and optional "comments" fields.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(r.FormValue("project"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid project id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	refs := []models.FileRef{}
	cleanup := func() {
		for _, ref := range refs {
			if delErr := h.Files.Delete(ctx, ref.Path); delErr != nil {
				h.Log.Warn("orphaned upload cleanup failed",
					zap.String("path", ref.Path), zap.Error(delErr))
			}
		}
	}

	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			cleanup()
			respond.Fail(w, http.StatusBadRequest, "unreadable file part")
			return
		}
		saved, err := h.Files.Save(ctx, header.Filename, header.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			cleanup()
			respond.Error(w, h.Log, err)
			return
		}
		refs = append(refs, models.FileRef{
			StoredName:   saved.StoredName,
			OriginalName: saved.OriginalName,
			Path:         saved.Path,
			Size:         saved.Size,
			MimeType:     saved.MimeType,
		})
	}

	sub, err := h.Svc.CreateSubmission(ctx, actor, mutation.CreateSubmissionInput{
		Project:  projectID,
		Files:    refs,
		Comments: r.FormValue("comments"),
	})
	if err != nil {
		cleanup()
		respond.Error(w, h.Log, err)
		return
	}
	respond.Created(w, sub)
}

// List handles GET /submissions with an optional ?project= filter.
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

	list, err := h.Svc.ListSubmissions(ctx, actor, projectID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, list)
}

// Get handles GET /submissions/{id}.
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

	sub, err := h.Svc.GetSubmission(ctx, actor, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, sub)
}

type reviewRequest struct {
	Status   string          `json:"status"`
	Grade    json.RawMessage `json:"grade"`
	Feedback string          `json:"feedback"`
}

// Review handles PUT /submissions/{id}/review.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := mutation.ReviewInput{Status: req.Status, Feedback: req.Feedback}
	if len(req.Grade) > 0 && string(req.Grade) != "null" {
		grade, err := strconv.Atoi(string(req.Grade))
		if err != nil {
			respond.Fail(w, http.StatusBadRequest, "invalid grade")
			return
		}
		in.Grade = &grade
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Svc.ReviewSubmission(ctx, actor, id, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, sub)
}

// Delete handles DELETE /submissions/{id}.
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

	if err := h.Svc.DeleteSubmission(ctx, actor, id); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]string{"id": id.Hex()})
}
