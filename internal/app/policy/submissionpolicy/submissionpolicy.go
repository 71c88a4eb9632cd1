// Package submissionpolicy decides what an actor may do to a submission.
// Pure predicates over loaded snapshots.
package submissionpolicy

import (
	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/domain/models"
)

// CanCreate reports whether the actor may submit to the project. Only
// project members submit; faculty and admins review, they do not submit on a
// student's behalf.
func CanCreate(actor authz.Actor, p models.Project) bool {
	return projectpolicy.Resolve(actor, p).CanCreateSubmission
}

// CanView reports whether the actor may read the submission: admin, the
// project's faculty, the submitter, or any project member.
func CanView(actor authz.Actor, p models.Project, s models.Submission) bool {
	if projectpolicy.Resolve(actor, p).CanReview {
		return true
	}
	return s.SubmittedBy == actor.ID || p.HasMember(actor.ID)
}

// CanReview reports whether the actor may set status/grade/feedback.
// Admin or the project's faculty — but never the submitter, regardless of
// any other standing they hold. The exclusion is absolute per submission.
func CanReview(actor authz.Actor, p models.Project, s models.Submission) bool {
	if s.SubmittedBy == actor.ID {
		return false
	}
	return projectpolicy.Resolve(actor, p).CanReview
}

// CanDelete reports whether the actor may delete the submission: admin, the
// submitter, or the project's faculty.
func CanDelete(actor authz.Actor, p models.Project, s models.Submission) bool {
	if actor.IsAdmin() || s.SubmittedBy == actor.ID {
		return true
	}
	return p.Faculty == actor.ID
}
