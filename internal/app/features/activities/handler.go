// internal/app/features/activities/handler.go
package activities

import (
	"context"
	"net/http"

	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/respond"
	"github.com/projecthubhq/projecthub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service is the slice of the mutation service this feature uses.
type Service interface {
	ListActivities(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]activitystore.Entry, error)
}

// Handler owns the activity feed handlers.
type Handler struct {
	Svc Service
	Log *zap.Logger
}

// NewHandler constructs an activity Handler.
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// List handles GET /activities?project=. The project is required; there is
// no cross-project feed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorCtx(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("project"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "project query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	feed, err := h.Svc.ListActivities(ctx, actor, projectID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.OK(w, feed)
}
