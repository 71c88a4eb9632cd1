// Package taskpolicy decides what an actor may do to a task within its
// project. Pure predicates over loaded snapshots, like projectpolicy.
package taskpolicy

import (
	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/domain/models"
)

// CanCreate reports whether the actor may create a task on the project:
// admin, the project's faculty, or any member.
func CanCreate(actor authz.Actor, p models.Project) bool {
	return projectpolicy.Resolve(actor, p).CanCreateTask
}

// CanUpdate reports whether the actor may update the task: everyone who can
// create tasks on the project, plus the task's assignee even when they are
// no longer a member.
func CanUpdate(actor authz.Actor, p models.Project, t models.Task) bool {
	if projectpolicy.Resolve(actor, p).CanCreateTask {
		return true
	}
	return t.IsAssignee(actor.ID)
}

// CanDelete reports whether the actor may delete a task. Stricter than
// update: only admins and the project's faculty.
func CanDelete(actor authz.Actor, p models.Project) bool {
	return projectpolicy.Resolve(actor, p).CanDeleteTask
}
