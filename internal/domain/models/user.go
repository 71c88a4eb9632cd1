// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Admins bypass every per-project check; faculty own projects;
// students participate through project membership.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User represents students, faculty, and admins.
//
// NOTE:
//   - Groups mirrors the projects the user belongs to. It is maintained as a
//     matched pair with Project.Members by the mutation service; the two are
//     written sequentially, not transactionally.
//   - Users are never deleted by this service.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	Email      string               `bson:"email" json:"email"`
	Role       string               `bson:"role" json:"role"` // student | faculty | admin
	StudentID  string               `bson:"student_id,omitempty" json:"student_id,omitempty"`
	Department string               `bson:"department,omitempty" json:"department,omitempty"`
	Year       int                  `bson:"year,omitempty" json:"year,omitempty"`
	Groups     []primitive.ObjectID `bson:"groups" json:"groups"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRef is the projection of a user embedded in expanded responses.
type UserRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
