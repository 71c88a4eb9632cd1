// internal/app/service/mutation/tasks.go
package mutation

import (
	"context"
	"time"

	"github.com/projecthubhq/projecthub/internal/app/policy/projectpolicy"
	"github.com/projecthubhq/projecthub/internal/app/policy/taskpolicy"
	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	taskstore "github.com/projecthubhq/projecthub/internal/app/store/tasks"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/app/system/htmlsanitize"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateTaskInput carries the caller-supplied task fields.
type CreateTaskInput struct {
	Project     primitive.ObjectID
	Title       string
	Description string
	AssignedTo  *primitive.ObjectID
	Status      string
	Priority    string
	Deadline    *time.Time
}

// CreateTask creates a task, records the activity, and recomputes the
// project's progress — one unit of work under the project lock.
func (s *Service) CreateTask(ctx context.Context, actor authz.Actor, in CreateTaskInput) (models.Task, error) {
	p, err := s.loadProject(ctx, in.Project)
	if err != nil {
		return models.Task{}, err
	}
	if !taskpolicy.CanCreate(actor, p) {
		return models.Task{}, apperr.Denied("not a participant of this project")
	}

	title := htmlsanitize.PlainText(in.Title)
	if title == "" {
		return models.Task{}, apperr.Invalid("title is required")
	}
	if in.Status != "" && !models.ValidTaskStatus(in.Status) {
		return models.Task{}, apperr.Invalid("unknown task status")
	}
	if in.Priority != "" && !models.ValidTaskPriority(in.Priority) {
		return models.Task{}, apperr.Invalid("unknown task priority")
	}
	if in.AssignedTo != nil {
		if !p.HasMember(*in.AssignedTo) && *in.AssignedTo != p.Faculty {
			return models.Task{}, apperr.Invalid("assignee is not a participant of the project")
		}
	}

	s.locks.Lock(in.Project.Hex())
	defer s.locks.Unlock(in.Project.Hex())

	t, err := s.tasks.Insert(ctx, models.Task{
		Title:       title,
		Description: htmlsanitize.Sanitize(in.Description),
		Project:     in.Project,
		AssignedTo:  in.AssignedTo,
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
	})
	if err != nil {
		return models.Task{}, err
	}
	if err := s.activity.TaskCreated(ctx, in.Project, actor.ID, t.ID, t.Title); err != nil {
		return models.Task{}, err
	}
	if _, err := s.recomputeProgress(ctx, in.Project); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateTaskInput carries the caller-supplied patch. Nil fields are left
// untouched. AssignedTo distinguishes "leave alone" (nil) from "clear"
// (pointer to nil) from "set" (pointer to an ID).
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  **primitive.ObjectID
	Deadline    *time.Time
}

// UpdateTask patches a task, records the activity (task-completed when the
// patch lands on done, task-updated otherwise), and recomputes progress.
func (s *Service) UpdateTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in UpdateTaskInput) (models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, asNotFound("task", err)
	}
	p, err := s.loadProject(ctx, t.Project)
	if err != nil {
		return models.Task{}, err
	}
	if !taskpolicy.CanUpdate(actor, p, t) {
		return models.Task{}, apperr.Denied("not allowed to update this task")
	}

	patch := taskstore.Patch{AssignedTo: in.AssignedTo, Deadline: in.Deadline}
	if in.Title != nil {
		title := htmlsanitize.PlainText(*in.Title)
		if title == "" {
			return models.Task{}, apperr.Invalid("title cannot be empty")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		patch.Description = &d
	}
	if in.Status != nil {
		if !models.ValidTaskStatus(*in.Status) {
			return models.Task{}, apperr.Invalid("unknown task status")
		}
		patch.Status = in.Status
	}
	if in.Priority != nil {
		if !models.ValidTaskPriority(*in.Priority) {
			return models.Task{}, apperr.Invalid("unknown task priority")
		}
		patch.Priority = in.Priority
	}
	if in.AssignedTo != nil && *in.AssignedTo != nil {
		if !p.HasMember(**in.AssignedTo) && **in.AssignedTo != p.Faculty {
			return models.Task{}, apperr.Invalid("assignee is not a participant of the project")
		}
	}

	s.locks.Lock(t.Project.Hex())
	defer s.locks.Unlock(t.Project.Hex())

	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, asNotFound("task", err)
	}
	if err := s.activity.TaskUpdated(ctx, t.Project, actor.ID, updated.ID, updated.Title, updated.Status); err != nil {
		return models.Task{}, err
	}
	if _, err := s.recomputeProgress(ctx, t.Project); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task and recomputes progress. Deletion is quiet: the
// feed records creations and updates, not removals.
func (s *Service) DeleteTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return asNotFound("task", err)
	}
	p, err := s.loadProject(ctx, t.Project)
	if err != nil {
		return err
	}
	if !taskpolicy.CanDelete(actor, p) {
		return apperr.Denied("only the owning faculty deletes tasks")
	}

	s.locks.Lock(t.Project.Hex())
	defer s.locks.Unlock(t.Project.Hex())

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	_, err = s.recomputeProgress(ctx, t.Project)
	return err
}

// GetTask returns one task after a view check against its project.
func (s *Service) GetTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, asNotFound("task", err)
	}
	p, err := s.loadProject(ctx, t.Project)
	if err != nil {
		return models.Task{}, err
	}
	if !projectpolicy.Resolve(actor, p).CanView && !t.IsAssignee(actor.ID) {
		return models.Task{}, apperr.Denied("not a participant of this project")
	}
	return t, nil
}

// ListTasks returns the tasks the actor can see. With a project given, the
// project's full task list after a view check. Without one: admins see
// everything, faculty the tasks of projects they own, students the tasks
// assigned to them or belonging to their projects.
func (s *Service) ListTasks(ctx context.Context, actor authz.Actor, projectID primitive.ObjectID) ([]models.Task, error) {
	if !projectID.IsZero() {
		p, err := s.loadProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if !projectpolicy.Resolve(actor, p).CanView {
			return nil, apperr.Denied("not a participant of this project")
		}
		return s.tasks.ListByProject(ctx, projectID)
	}

	switch {
	case actor.IsAdmin():
		return s.tasks.ListAll(ctx)
	case actor.IsFaculty():
		owned, err := s.ownedProjectIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		return s.tasks.ListByProjects(ctx, owned)
	default:
		member, err := s.memberProjectIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		return s.tasks.ListVisibleToStudent(ctx, actor.ID, member)
	}
}

func (s *Service) ownedProjectIDs(ctx context.Context, actor authz.Actor) ([]primitive.ObjectID, error) {
	return s.projectIDs(ctx, projectstore.Filter{Faculty: actor.ID})
}

func (s *Service) memberProjectIDs(ctx context.Context, actor authz.Actor) ([]primitive.ObjectID, error) {
	return s.projectIDs(ctx, projectstore.Filter{Member: actor.ID})
}

func (s *Service) projectIDs(ctx context.Context, f projectstore.Filter) ([]primitive.ObjectID, error) {
	list, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
