// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

// Project is the aggregate root for tasks, submissions, and activities.
//
// Progress is a cached derived value: it always equals what the progress
// calculator produced from the project's task set at the last mutation that
// touched tasks (or the last explicit recompute). It is not guaranteed
// real-time-consistent with concurrent task writes from other processes.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Faculty     primitive.ObjectID   `bson:"faculty" json:"faculty"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	Status      string               `bson:"status" json:"status"` // active | completed | archived
	Progress    int                  `bson:"progress" json:"progress"`
	Deadline    *time.Time           `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Files       []FileRef            `bson:"files" json:"files"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID appears in the project's member list.
func (p Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ValidProjectStatus reports whether s is one of the closed project statuses.
func ValidProjectStatus(s string) bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectArchived
}
