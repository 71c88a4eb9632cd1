// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types. Closed enum; the recorder rejects anything else.
const (
	ActivityTaskCreated       = "task-created"
	ActivityTaskUpdated       = "task-updated"
	ActivityTaskCompleted     = "task-completed"
	ActivityMemberAdded       = "member-added"
	ActivityFileUploaded      = "file-uploaded"
	ActivitySubmissionCreated = "submission-created"
	ActivityFeedbackAdded     = "feedback-added"
	ActivityProjectUpdated    = "project-updated"
)

// Activity is an immutable audit record of a change to a project or one of
// its children. Activities are never updated; they are deleted only when the
// owning project is cascade-deleted.
//
// Metadata carries one of the typed payloads below, keyed by Type. Handlers
// never set it directly; the activity logger's typed helpers are the only
// producers.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Project     primitive.ObjectID `bson:"project" json:"project"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Metadata    any                `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// TaskMeta is the metadata payload for task-created, task-updated, and
// task-completed activities.
type TaskMeta struct {
	TaskID    primitive.ObjectID `bson:"task_id" json:"task_id"`
	TaskTitle string             `bson:"task_title" json:"task_title"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
}

// MemberMeta is the metadata payload for member-added activities.
type MemberMeta struct {
	MemberID   primitive.ObjectID `bson:"member_id" json:"member_id"`
	MemberName string             `bson:"member_name" json:"member_name"`
}

// SubmissionMeta is the metadata payload for submission-created and
// feedback-added activities.
type SubmissionMeta struct {
	SubmissionID primitive.ObjectID `bson:"submission_id" json:"submission_id"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`
	Grade        *int               `bson:"grade,omitempty" json:"grade,omitempty"`
}

// FileMeta is the metadata payload for file-uploaded activities.
type FileMeta struct {
	FileName string `bson:"file_name" json:"file_name"`
	Size     int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// ValidActivityType reports whether t is one of the closed activity types.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityTaskCreated, ActivityTaskUpdated, ActivityTaskCompleted,
		ActivityMemberAdded, ActivityFileUploaded, ActivitySubmissionCreated,
		ActivityFeedbackAdded, ActivityProjectUpdated:
		return true
	}
	return false
}
