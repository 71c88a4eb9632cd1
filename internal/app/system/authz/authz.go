// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/projecthubhq/projecthub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the resolved identity a policy decision runs against. It is
// built once per request from the session user; handlers pass it down
// instead of re-deriving role checks ad hoc.
type Actor struct {
	ID   primitive.ObjectID
	Name string
	Role string // student | faculty | admin
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// IsFaculty reports whether the actor holds the faculty role.
func (a Actor) IsFaculty() bool { return a.Role == "faculty" }

// IsStudent reports whether the actor holds the student role.
func (a Actor) IsStudent() bool { return a.Role == "student" }

// ActorCtx returns the request's actor with a normalized lowercase role.
// If no user is present or the user ID is malformed it returns ok=false,
// so ok=true always means a valid, authenticated actor with a valid
// ObjectID. Malformed IDs fail closed.
func ActorCtx(r *http.Request) (Actor, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Actor{}, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return Actor{}, false
	}
	return Actor{
		ID:   id,
		Name: u.Name,
		Role: strings.ToLower(u.Role),
	}, true
}
