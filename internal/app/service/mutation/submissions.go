// internal/app/service/mutation/submissions.go
package mutation

import (
	"context"
	"time"

	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	"github.com/projecthubhq/projecthub/internal/app/policy/submissionpolicy"
	submissionstore "github.com/projecthubhq/projecthub/internal/app/store/submissions"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/htmlsanitize"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateSubmissionInput carries the caller-supplied submission fields. Files
// have already been stored; only descriptors arrive here.
type CreateSubmissionInput struct {
	Project  primitive.ObjectID
	Files    []models.FileRef
	Comments string
}

// CreateSubmission creates a pending submission by a project member and
// records the activity. Faculty and admins do not submit on a student's
// behalf.
func (s *Service) CreateSubmission(ctx context.Context, actor authz.Actor, in CreateSubmissionInput) (models.Submission, error) {
	p, err := s.loadProject(ctx, in.Project)
	if err != nil {
		return models.Submission{}, err
	}
	if !submissionpolicy.CanCreate(actor, p) {
		return models.Submission{}, apperr.Denied("only project members submit")
	}
	if len(in.Files) == 0 {
		return models.Submission{}, apperr.Invalid("a submission needs at least one file")
	}

	for i := range in.Files {
		if in.Files[i].UploadedBy == nil {
			in.Files[i].UploadedBy = &actor.ID
		}
		if in.Files[i].UploadedAt.IsZero() {
			in.Files[i].UploadedAt = time.Now().UTC()
		}
	}

	sub, err := s.subs.Insert(ctx, models.Submission{
		Project:     in.Project,
		SubmittedBy: actor.ID,
		Files:       in.Files,
		Comments:    htmlsanitize.Sanitize(in.Comments),
	})
	if err != nil {
		return models.Submission{}, err
	}
	if err := s.activity.SubmissionCreated(ctx, in.Project, actor.ID, sub.ID, p.Title); err != nil {
		return models.Submission{}, err
	}

	s.log.Info("submission created",
		zap.String("submission", sub.ID.Hex()),
		zap.String("project", in.Project.Hex()),
		zap.String("actor", actor.ID.Hex()))
	return sub, nil
}

// ReviewInput carries a review verdict.
type ReviewInput struct {
	Status   string
	Grade    *int
	Feedback string
}

// ReviewSubmission records a verdict: status, optional grade, feedback, and
// the reviewer stamp. Re-reviews overwrite the previous stamp. The submitter
// never reviews their own work, whatever else they are.
func (s *Service) ReviewSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in ReviewInput) (models.Submission, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return models.Submission{}, asNotFound("submission", err)
	}
	p, err := s.loadProject(ctx, sub.Project)
	if err != nil {
		return models.Submission{}, err
	}
	if !submissionpolicy.CanReview(actor, p, sub) {
		return models.Submission{}, apperr.Denied("not allowed to review this submission")
	}

	if !models.ValidSubmissionStatus(in.Status) || in.Status == models.SubmissionPending {
		return models.Submission{}, apperr.Invalid("unknown review status")
	}
	if in.Grade != nil && (*in.Grade < 0 || *in.Grade > 100) {
		return models.Submission{}, apperr.Invalid("grade must be between 0 and 100")
	}

	updated, err := s.subs.ApplyReview(ctx, id, submissionstore.Review{
		Status:     in.Status,
		Grade:      in.Grade,
		Feedback:   htmlsanitize.Sanitize(in.Feedback),
		ReviewedBy: actor.ID,
		ReviewedAt: time.Now().UTC(),
	})
	if err != nil {
		return models.Submission{}, asNotFound("submission", err)
	}
	if err := s.activity.FeedbackAdded(ctx, sub.Project, actor.ID, id, updated.Status, updated.Grade); err != nil {
		return models.Submission{}, err
	}
	return updated, nil
}

// DeleteSubmission removes a submission and its stored files. File removal
// is best-effort.
func (s *Service) DeleteSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return asNotFound("submission", err)
	}
	p, err := s.loadProject(ctx, sub.Project)
	if err != nil {
		return err
	}
	if !submissionpolicy.CanDelete(actor, p, sub) {
		return apperr.Denied("not allowed to delete this submission")
	}

	if err := s.subs.Delete(ctx, id); err != nil {
		return err
	}
	for _, f := range sub.Files {
		s.removeFile(ctx, f.Path)
	}
	return nil
}

// GetSubmission returns one submission after a view check.
func (s *Service) GetSubmission(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Submission, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return models.Submission{}, asNotFound("submission", err)
	}
	p, err := s.loadProject(ctx, sub.Project)
	if err != nil {
		return models.Submission{}, err
	}
	if !submissionpolicy.CanView(actor, p, sub) {
		return models.Submission{}, apperr.Denied("not allowed to view this submission")
	}
	return sub, nil
}

// ListSubmissions returns the submissions the actor can see. With a project
// given, the project's submissions after a view check — except students, who
// only see their own even within their project. Without one: admins see
// everything, faculty their owned projects' submissions, students their own.
func (s *Service) ListSubmissions(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]models.Submission, error) {
	if !projectID.IsZero() {
		p, err := s.loadProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if !projectpolicy.Resolve(actor, p).CanView {
			return nil, apperr.Denied("not a participant of this project")
		}
		list, err := s.subs.ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if actor.IsStudent() {
			own := []models.Submission{}
			for _, sub := range list {
				if sub.SubmittedBy == actor.ID {
					own = append(own, sub)
				}
			}
			return own, nil
		}
		return list, nil
	}

	switch {
	case actor.IsAdmin():
		return s.subs.ListAll(ctx)
	case actor.IsFaculty():
		owned, err := s.ownedProjectIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		return s.subs.ListByProjects(ctx, owned)
	default:
		return s.subs.ListBySubmitter(ctx, actor.ID)
	}
}
