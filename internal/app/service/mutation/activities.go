// internal/app/service/mutation/activities.go
package mutation

import (
	"context"

	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListActivities returns the project's recent feed, newest first, capped by
// the store. Reads go through the same capability gate as the project view.
func (s *Service) ListActivities(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]activitystore.Entry, error) {
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !projectpolicy.Resolve(actor, p).CanViewActivities {
		return nil, apperr.Denied("not a participant of this project")
	}
	return s.acts.ListByProject(ctx, projectID)
}
