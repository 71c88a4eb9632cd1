// internal/app/service/mutation/members.go
package mutation

import (
	"context"

	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AddMember puts a user on the project roster and mirrors the membership on
// the user document. The two writes are sequential, not transactional; the
// project side is authoritative and goes first, and the per-project lock
// keeps a racing add/remove from interleaving between them.
func (s *Service) AddMember(ctx context.Context, actor authz.Actor, projectID, userID primitive.ObjectID) (ProjectView, error) {
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return ProjectView{}, err
	}
	if !projectpolicy.Resolve(actor, p).CanManageMembers {
		return ProjectView{}, apperr.Denied("only the owning faculty manages members")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ProjectView{}, asNotFound("user", err)
	}

	s.locks.Lock(projectID.Hex())
	defer s.locks.Unlock(projectID.Hex())

	// Re-read under the lock; the snapshot used for authorization may
	// predate another add.
	p, err = s.loadProject(ctx, projectID)
	if err != nil {
		return ProjectView{}, err
	}
	if p.HasMember(userID) {
		return ProjectView{}, apperr.Invalid("user is already a member")
	}

	if err := s.projects.AddMember(ctx, projectID, userID); err != nil {
		return ProjectView{}, err
	}
	if err := s.users.AddGroup(ctx, userID, projectID); err != nil {
		return ProjectView{}, err
	}
	if err := s.activity.MemberAdded(ctx, projectID, actor.ID, userID, u.Name); err != nil {
		return ProjectView{}, err
	}

	s.log.Info("member added",
		zap.String("project", projectID.Hex()),
		zap.String("member", userID.Hex()),
		zap.String("actor", actor.ID.Hex()))

	p.Members = append(p.Members, userID)
	return s.expandProject(ctx, p)
}

// RemoveMember takes a user off the roster and clears the mirror. Removal is
// quiet: no activity is recorded, matching the feed's additive nature.
func (s *Service) RemoveMember(ctx context.Context, actor authz.Actor, projectID, userID primitive.ObjectID) error {
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !projectpolicy.Resolve(actor, p).CanManageMembers {
		return apperr.Denied("only the owning faculty manages members")
	}
	if !p.HasMember(userID) {
		return apperr.Invalid("user is not a member")
	}

	s.locks.Lock(projectID.Hex())
	defer s.locks.Unlock(projectID.Hex())

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.users.RemoveGroup(ctx, userID, projectID); err != nil {
		return err
	}

	s.log.Info("member removed",
		zap.String("project", projectID.Hex()),
		zap.String("member", userID.Hex()),
		zap.String("actor", actor.ID.Hex()))
	return nil
}
