// Package projectpolicy decides what an actor may do to a project.
//
// Policies are pure predicates over snapshots: the actor resolved from the
// session and the project document already loaded by the caller. Loading and
// not-found handling stay in the handlers/service, which check existence
// before authorization. Admin always wins.
package projectpolicy

import (
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/domain/models"
)

// Caps is the permission set one actor holds on one project, resolved once
// per request and consumed uniformly by handlers and the mutation service.
type Caps struct {
	CanView             bool
	CanUpdate           bool
	CanDelete           bool
	CanManageMembers    bool
	CanCreateTask       bool
	CanDeleteTask       bool
	CanUploadFile       bool
	CanCreateSubmission bool
	CanReview           bool
	CanViewActivities   bool
}

// CanCreate reports whether the actor may create projects at all.
// Faculty and admins only.
func CanCreate(actor authz.Actor) bool {
	return actor.IsAdmin() || actor.IsFaculty()
}

// Resolve computes the actor's capability set for the given project.
func Resolve(actor authz.Actor, p models.Project) Caps {
	if actor.IsAdmin() {
		return Caps{
			CanView:             true,
			CanUpdate:           true,
			CanDelete:           true,
			CanManageMembers:    true,
			CanCreateTask:       true,
			CanDeleteTask:       true,
			CanUploadFile:       true,
			CanCreateSubmission: p.HasMember(actor.ID),
			CanReview:           true,
			CanViewActivities:   true,
		}
	}

	owner := p.Faculty == actor.ID
	member := p.HasMember(actor.ID)

	return Caps{
		CanView:             owner || member,
		CanUpdate:           owner,
		CanDelete:           owner,
		CanManageMembers:    owner,
		CanCreateTask:       owner || member,
		CanDeleteTask:       owner,
		CanUploadFile:       owner || member,
		CanCreateSubmission: member,
		CanReview:           owner,
		CanViewActivities:   owner || member,
	}
}
