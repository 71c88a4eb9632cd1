// Package mutation is the write path for projects and everything under them.
//
// Every compound operation follows the same shape: load the snapshots it
// needs, resolve the actor's capabilities once, validate, then perform the
// writes under the project's mutex. The document store only guarantees
// single-document atomicity, so the per-project lock is what keeps a task
// write and its progress recompute (or the paired membership writes) from
// interleaving with another request in this process.
//
// Activity recording is part of each mutation's unit of work: a failed
// activity insert fails the whole operation.
package mutation

import (
	"context"
	"errors"

	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	submissionstore "github.com/projecthubhq/projecthub/internal/app/store/submissions"
	taskstore "github.com/projecthubhq/projecthub/internal/app/store/tasks"
	"github.com/projecthubhq/projecthub/internal/app/system/activitylog"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/filestore"
	"github.com/projecthubhq/projecthub/internal/app/system/locks"
	"github.com/projecthubhq/projecthub/internal/app/system/progress"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ProjectStore is the slice of the project store the service needs.
type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	Insert(ctx context.Context, p models.Project) (models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, patch projectstore.Patch) (models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddMember(ctx context.Context, projectID, memberID primitive.ObjectID) error
	RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error
	SetProgress(ctx context.Context, projectID primitive.ObjectID, progress int) error
	AddFile(ctx context.Context, projectID primitive.ObjectID, f models.FileRef) error
	List(ctx context.Context, f projectstore.Filter) ([]models.Project, error)
}

// UserStore is the slice of the user store the service needs.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	AddGroup(ctx context.Context, userID, projectID primitive.ObjectID) error
	RemoveGroup(ctx context.Context, userID, projectID primitive.ObjectID) error
	RemoveGroupFromAll(ctx context.Context, projectID primitive.ObjectID) error
	Refs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserRef, error)
}

// TaskStore is the slice of the task store the service needs.
type TaskStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error)
	Insert(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, patch taskstore.Patch) (models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error)
	ListVisibleToStudent(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
}

// SubmissionStore is the slice of the submission store the service needs.
type SubmissionStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error)
	Insert(ctx context.Context, s models.Submission) (models.Submission, error)
	ApplyReview(ctx context.Context, id primitive.ObjectID, r submissionstore.Review) (models.Submission, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Submission, error)
	ListBySubmitter(ctx context.Context, userID primitive.ObjectID) ([]models.Submission, error)
	ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
}

// ActivityStore is the slice of the activity store the service needs for
// reads and the cascade. Writes go through the activity logger.
type ActivityStore interface {
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]activitystore.Entry, error)
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
}

// Service executes all mutations and scoped reads.
type Service struct {
	projects ProjectStore
	users    UserStore
	tasks    TaskStore
	subs     SubmissionStore
	acts     ActivityStore
	activity *activitylog.Logger
	files    filestore.Store
	locks    *locks.Keyed
	log      *zap.Logger
}

// Deps bundles the service's collaborators.
type Deps struct {
	Projects ProjectStore
	Users    UserStore
	Tasks    TaskStore
	Subs     SubmissionStore
	Acts     ActivityStore
	Activity *activitylog.Logger
	Files    filestore.Store
	Log      *zap.Logger
}

// New wires a Service.
func New(d Deps) *Service {
	return &Service{
		projects: d.Projects,
		users:    d.Users,
		tasks:    d.Tasks,
		subs:     d.Subs,
		acts:     d.Acts,
		activity: d.Activity,
		files:    d.Files,
		locks:    locks.NewKeyed(),
		log:      d.Log,
	}
}

// asNotFound converts the driver's no-documents error into the taxonomy's
// not-found for the named resource; other errors pass through.
func asNotFound(resource string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(resource)
	}
	return err
}

// loadProject fetches the project or returns a taxonomy not-found.
func (s *Service) loadProject(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, asNotFound("project", err)
	}
	return p, nil
}

// recomputeProgress re-derives the project's progress from its full task set
// and stores it. Callers hold the project lock.
func (s *Service) recomputeProgress(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	all, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, t := range all {
		if t.Status == models.TaskDone {
			done++
		}
	}
	pct := progress.TaskRatio(len(all), done)
	if err := s.projects.SetProgress(ctx, projectID, pct); err != nil {
		return 0, err
	}
	return pct, nil
}
