// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission review statuses.
const (
	SubmissionPending       = "pending"
	SubmissionApproved      = "approved"
	SubmissionRejected      = "rejected"
	SubmissionNeedsRevision = "needs-revision"
)

// Submission is a graded deliverable for a project. Created by a project
// member; reviewed (status/grade/feedback) by the project's faculty or an
// admin, never by the submitter. ReviewedBy and ReviewedAt are set together
// on each review and overwritten on re-review.
type Submission struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Project     primitive.ObjectID  `bson:"project" json:"project"`
	SubmittedBy primitive.ObjectID  `bson:"submitted_by" json:"submitted_by"`
	Files       []FileRef           `bson:"files" json:"files"`
	Comments    string              `bson:"comments,omitempty" json:"comments,omitempty"`
	Status      string              `bson:"status" json:"status"` // pending | approved | rejected | needs-revision
	Grade       *int                `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback    string              `bson:"feedback,omitempty" json:"feedback,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// ValidSubmissionStatus reports whether s is one of the closed review statuses.
func ValidSubmissionStatus(s string) bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected, SubmissionNeedsRevision:
		return true
	}
	return false
}
