// internal/app/service/mutation/projects.go
package mutation

import (
	"context"
	"time"

	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/htmlsanitize"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProjectView is a project with its people resolved for display.
type ProjectView struct {
	models.Project
	FacultyUser models.UserRef   `json:"faculty_user"`
	MemberUsers []models.UserRef `json:"member_users"`
}

// CreateProjectInput carries the caller-supplied project fields.
type CreateProjectInput struct {
	Title       string
	Description string
	Faculty     primitive.ObjectID // optional; defaults to a faculty actor
	Deadline    *time.Time
}

// CreateProject creates a project owned by a faculty. Faculty actors own
// what they create; admins must name the owning faculty explicitly.
func (s *Service) CreateProject(ctx context.Context, actor authz.Actor, in CreateProjectInput) (models.Project, error) {
	if !projectpolicy.CanCreate(actor) {
		return models.Project{}, apperr.Denied("only faculty and admins create projects")
	}

	title := htmlsanitize.PlainText(in.Title)
	if title == "" {
		return models.Project{}, apperr.Invalid("title is required")
	}

	faculty := in.Faculty
	if faculty.IsZero() {
		if !actor.IsFaculty() {
			return models.Project{}, apperr.Invalid("faculty is required")
		}
		faculty = actor.ID
	}
	if _, err := s.users.GetByID(ctx, faculty); err != nil {
		return models.Project{}, asNotFound("faculty", err)
	}

	p, err := s.projects.Insert(ctx, models.Project{
		Title:       title,
		Description: htmlsanitize.Sanitize(in.Description),
		Faculty:     faculty,
		Deadline:    in.Deadline,
	})
	if err != nil {
		return models.Project{}, err
	}
	if err := s.activity.ProjectCreated(ctx, p.ID, actor.ID, p.Title); err != nil {
		return models.Project{}, err
	}

	s.log.Info("project created",
		zap.String("project", p.ID.Hex()),
		zap.String("actor", actor.ID.Hex()))
	return p, nil
}

// GetProject returns one project with people resolved. Not-found wins over
// permission-denied: a project the actor could never see still reports 404.
func (s *Service) GetProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (ProjectView, error) {
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	if !projectpolicy.Resolve(actor, p).CanView {
		return ProjectView{}, apperr.Denied("not a participant of this project")
	}
	return s.expandProject(ctx, p)
}

// ListProjects returns the projects the actor can see: admins all of them,
// faculty the ones they own, students the ones they belong to.
func (s *Service) ListProjects(ctx context.Context, actor authz.Actor) ([]ProjectView, error) {
	var f projectstore.Filter
	switch {
	case actor.IsAdmin():
		// no constraint
	case actor.IsFaculty():
		f.Faculty = actor.ID
	default:
		f.Member = actor.ID
	}

	list, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.expandProjects(ctx, list)
}

// UpdateProjectInput carries the caller-supplied patch. Nil fields are left
// untouched.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    *time.Time
}

// UpdateProject patches a project's own fields and records the activity.
func (s *Service) UpdateProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in UpdateProjectInput) (models.Project, error) {
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if !projectpolicy.Resolve(actor, p).CanUpdate {
		return models.Project{}, apperr.Denied("only the owning faculty updates a project")
	}

	patch := projectstore.Patch{Deadline: in.Deadline}
	if in.Title != nil {
		t := htmlsanitize.PlainText(*in.Title)
		if t == "" {
			return models.Project{}, apperr.Invalid("title cannot be empty")
		}
		patch.Title = &t
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		patch.Description = &d
	}
	if in.Status != nil {
		if !models.ValidProjectStatus(*in.Status) {
			return models.Project{}, apperr.Invalid("unknown project status")
		}
		patch.Status = in.Status
	}

	s.locks.Lock(id.Hex())
	defer s.locks.Unlock(id.Hex())

	updated, err := s.projects.Update(ctx, id, patch)
	if err != nil {
		return models.Project{}, asNotFound("project", err)
	}
	if err := s.activity.ProjectUpdated(ctx, updated.ID, actor.ID, updated.Title); err != nil {
		return models.Project{}, err
	}
	return updated, nil
}

// DeleteProject removes a project and everything under it: tasks, then
// activities, then submissions (including their stored files), then the
// membership mirror on users, then the project itself. File removal is
// best-effort; a missing file never aborts the cascade.
func (s *Service) DeleteProject(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return err
	}
	if !projectpolicy.Resolve(actor, p).CanDelete {
		return apperr.Denied("only the owning faculty deletes a project")
	}

	s.locks.Lock(id.Hex())
	defer s.locks.Unlock(id.Hex())

	subs, err := s.subs.ListByProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := s.acts.DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := s.subs.DeleteByProject(ctx, id); err != nil {
		return err
	}

	for _, sub := range subs {
		for _, f := range sub.Files {
			s.removeFile(ctx, f.Path)
		}
	}
	for _, f := range p.Files {
		s.removeFile(ctx, f.Path)
	}

	if err := s.users.RemoveGroupFromAll(ctx, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("project deleted",
		zap.String("project", id.Hex()),
		zap.String("actor", actor.ID.Hex()),
		zap.Int("submissions", len(subs)))
	return nil
}

// UpdateProgress recomputes the project's progress from its task set. The
// override only applies when the project has no tasks at all; with tasks
// present the derived value always wins.
func (s *Service) UpdateProgress(ctx context.Context, actor authz.Actor, id primitive.ObjectID, override *int) (int, error) {
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return 0, err
	}
	if !projectpolicy.Resolve(actor, p).CanUpdate {
		return 0, apperr.Denied("only the owning faculty sets progress")
	}

	s.locks.Lock(id.Hex())
	defer s.locks.Unlock(id.Hex())

	all, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(all) > 0 {
		return s.recomputeProgress(ctx, id)
	}

	pct := 0
	if override != nil {
		if *override < 0 || *override > 100 {
			return 0, apperr.Invalid("progress must be between 0 and 100")
		}
		pct = *override
	}
	if err := s.projects.SetProgress(ctx, id, pct); err != nil {
		return 0, err
	}
	return pct, nil
}

// AddProjectFile attaches an already-stored upload to the project and
// records the activity.
func (s *Service) AddProjectFile(ctx context.Context, actor authz.Actor, id primitive.ObjectID, saved models.FileRef) (models.FileRef, error) {
	p, err := s.loadProject(ctx, id)
	if err != nil {
		return models.FileRef{}, err
	}
	if !projectpolicy.Resolve(actor, p).CanUploadFile {
		return models.FileRef{}, apperr.Denied("not a participant of this project")
	}

	saved.UploadedBy = &actor.ID
	if saved.UploadedAt.IsZero() {
		saved.UploadedAt = time.Now().UTC()
	}

	s.locks.Lock(id.Hex())
	defer s.locks.Unlock(id.Hex())

	if err := s.projects.AddFile(ctx, id, saved); err != nil {
		return models.FileRef{}, err
	}
	if err := s.activity.FileUploaded(ctx, id, actor.ID, saved.OriginalName, saved.Size); err != nil {
		return models.FileRef{}, err
	}
	return saved, nil
}

// removeFile deletes a stored file, logging instead of failing. Cascades and
// submission deletes call this so document cleanup never hinges on disk
// state.
func (s *Service) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.files.Delete(ctx, path); err != nil {
		s.log.Warn("file cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

// expandProject resolves faculty and member references for one project.
func (s *Service) expandProject(ctx context.Context, p models.Project) (ProjectView, error) {
	views, err := s.expandProjects(ctx, []models.Project{p})
	if err != nil {
		return ProjectView{}, err
	}
	return views[0], nil
}

// expandProjects resolves people for a batch of projects with one user
// lookup.
func (s *Service) expandProjects(ctx context.Context, list []models.Project) ([]ProjectView, error) {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, p := range list {
		for _, id := range append([]primitive.ObjectID{p.Faculty}, p.Members...) {
			if !id.IsZero() && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	refs, err := s.users.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := map[primitive.ObjectID]models.UserRef{}
	for _, r := range refs {
		byID[r.ID] = r
	}

	views := make([]ProjectView, 0, len(list))
	for _, p := range list {
		v := ProjectView{Project: p, MemberUsers: []models.UserRef{}}
		v.FacultyUser = byID[p.Faculty]
		for _, m := range p.Members {
			if r, ok := byID[m]; ok {
				v.MemberUsers = append(v.MemberUsers, r)
			}
		}
		views = append(views, v)
	}
	return views, nil
}
