// Package activitylog records the per-project activity feed.
//
// Every mutation that the product surfaces to users appends exactly one
// activity through the typed helpers below. Descriptions are fixed templates
// — never user-supplied — and metadata is the typed payload matching the
// activity type, so the feed stays renderable without per-record shape
// checks.
//
// Recording is part of the mutation's unit of work: when the insert fails,
// the error propagates and the whole mutation reports failure, even though
// the primary write already landed. Callers rely on that coupling; do not
// replace it with fire-and-forget logging.
package activitylog

import (
	"context"
	"fmt"
	"time"

	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Inserter is the slice of the activity store the logger needs.
type Inserter interface {
	Insert(ctx context.Context, a models.Activity) (models.Activity, error)
}

// Logger writes activity records and mirrors them to structured logs.
type Logger struct {
	store  Inserter
	zapLog *zap.Logger
}

// New creates an activity Logger.
func New(store Inserter, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

func (l *Logger) record(ctx context.Context, a models.Activity) error {
	a.CreatedAt = time.Now().UTC()
	if _, err := l.store.Insert(ctx, a); err != nil {
		return fmt.Errorf("record activity %s: %w", a.Type, err)
	}
	l.zapLog.Info("activity recorded",
		zap.String("type", a.Type),
		zap.String("project", a.Project.Hex()),
		zap.String("actor", a.User.Hex()),
		zap.String("description", a.Description))
	return nil
}

// ProjectCreated records the creation of a project.
func (l *Logger) ProjectCreated(ctx context.Context, projectID, actorID primitive.ObjectID, title string) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityProjectUpdated,
		Description: fmt.Sprintf("Project %q was created", title),
	})
}

// ProjectUpdated records an update to a project's own fields.
func (l *Logger) ProjectUpdated(ctx context.Context, projectID, actorID primitive.ObjectID, title string) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityProjectUpdated,
		Description: fmt.Sprintf("Project %q was updated", title),
	})
}

// TaskCreated records a new task.
func (l *Logger) TaskCreated(ctx context.Context, projectID, actorID primitive.ObjectID, taskID primitive.ObjectID, title string) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityTaskCreated,
		Description: fmt.Sprintf("Task %q was created", title),
		Metadata:    models.TaskMeta{TaskID: taskID, TaskTitle: title},
	})
}

// TaskUpdated records a task update. A task moved to "done" is recorded as
// task-completed, everything else as task-updated.
func (l *Logger) TaskUpdated(ctx context.Context, projectID, actorID primitive.ObjectID, taskID primitive.ObjectID, title, status string) error {
	typ := models.ActivityTaskUpdated
	verb := "updated"
	if status == models.TaskDone {
		typ = models.ActivityTaskCompleted
		verb = "completed"
	}
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        typ,
		Description: fmt.Sprintf("Task %q was %s", title, verb),
		Metadata:    models.TaskMeta{TaskID: taskID, TaskTitle: title, Status: status},
	})
}

// MemberAdded records a user joining the project.
func (l *Logger) MemberAdded(ctx context.Context, projectID, actorID primitive.ObjectID, memberID primitive.ObjectID, memberName string) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityMemberAdded,
		Description: fmt.Sprintf("%s was added to the project", memberName),
		Metadata:    models.MemberMeta{MemberID: memberID, MemberName: memberName},
	})
}

// FileUploaded records a file attached to the project.
func (l *Logger) FileUploaded(ctx context.Context, projectID, actorID primitive.ObjectID, fileName string, size int64) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityFileUploaded,
		Description: fmt.Sprintf("File %q was uploaded", fileName),
		Metadata:    models.FileMeta{FileName: fileName, Size: size},
	})
}

// SubmissionCreated records a new submission.
func (l *Logger) SubmissionCreated(ctx context.Context, projectID, actorID primitive.ObjectID, submissionID primitive.ObjectID, projectTitle string) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivitySubmissionCreated,
		Description: fmt.Sprintf("New submission was created for project %q", projectTitle),
		Metadata:    models.SubmissionMeta{SubmissionID: submissionID},
	})
}

// FeedbackAdded records a review on a submission.
func (l *Logger) FeedbackAdded(ctx context.Context, projectID, actorID primitive.ObjectID, submissionID primitive.ObjectID, status string, grade *int) error {
	return l.record(ctx, models.Activity{
		Project:     projectID,
		User:        actorID,
		Type:        models.ActivityFeedbackAdded,
		Description: "Feedback was added to submission",
		Metadata:    models.SubmissionMeta{SubmissionID: submissionID, Status: status, Grade: grade},
	})
}
