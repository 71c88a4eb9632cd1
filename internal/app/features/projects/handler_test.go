package projects_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/projecthubhq/projecthub/internal/app/features/projects"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"github.com/projecthubhq/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// stubService returns canned values; err wins when set.
type stubService struct {
	err      error
	project  models.Project
	view     mutation.ProjectView
	views    []mutation.ProjectView
	progress int
	lastIn   mutation.CreateProjectInput
}

func (s *stubService) CreateProject(_ context.Context, _ authz.Actor, in mutation.CreateProjectInput) (models.Project, error) {
	s.lastIn = in
	return s.project, s.err
}

func (s *stubService) GetProject(context.Context, authz.Actor, primitive.ObjectID) (mutation.ProjectView, error) {
	return s.view, s.err
}

func (s *stubService) ListProjects(context.Context, authz.Actor) ([]mutation.ProjectView, error) {
	return s.views, s.err
}

func (s *stubService) UpdateProject(context.Context, authz.Actor, primitive.ObjectID, mutation.UpdateProjectInput) (models.Project, error) {
	return s.project, s.err
}

func (s *stubService) DeleteProject(context.Context, authz.Actor, primitive.ObjectID) error {
	return s.err
}

func (s *stubService) AddMember(context.Context, authz.Actor, primitive.ObjectID, primitive.ObjectID) (mutation.ProjectView, error) {
	return s.view, s.err
}

func (s *stubService) RemoveMember(context.Context, authz.Actor, primitive.ObjectID, primitive.ObjectID) error {
	return s.err
}

func (s *stubService) UpdateProgress(context.Context, authz.Actor, primitive.ObjectID, *int) (int, error) {
	return s.progress, s.err
}

func (s *stubService) AddProjectFile(_ context.Context, _ authz.Actor, _ primitive.ObjectID, f models.FileRef) (models.FileRef, error) {
	return f, s.err
}

func (s *stubService) ListActivities(context.Context, authz.Actor, primitive.ObjectID) ([]activitystore.Entry, error) {
	return nil, s.err
}

func newHandler(svc *stubService) *projects.Handler {
	return projects.NewHandler(svc, nil, zap.NewNop())
}

func TestList_RequiresAuthentication(t *testing.T) {
	h := newHandler(&stubService{})
	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestList_WrapsDataInEnvelope(t *testing.T) {
	svc := &stubService{views: []mutation.ProjectView{{Project: models.Project{Title: "Capstone"}}}}
	h := newHandler(svc)
	req := testutil.NewAuthenticatedRequest("GET", "/projects", nil, testutil.FacultyUser())
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if !body.Success || len(body.Data) != 1 {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGet_InvalidIDIsBadRequest(t *testing.T) {
	h := newHandler(&stubService{})
	req := testutil.NewAuthenticatedRequest("GET", "/projects/nope", nil, testutil.FacultyUser())
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_MapsPermissionDeniedTo403(t *testing.T) {
	svc := &stubService{err: apperr.Denied("only faculty and admins create projects")}
	h := newHandler(svc)
	req := testutil.NewAuthenticatedRequest("POST", "/projects",
		strings.NewReader(`{"title":"Nope"}`), testutil.StudentUser())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreate_ParsesFacultyID(t *testing.T) {
	svc := &stubService{project: models.Project{Title: "Compilers"}}
	h := newHandler(svc)
	faculty := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("POST", "/projects",
		strings.NewReader(`{"title":"Compilers","faculty":"`+faculty.Hex()+`"}`), testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.lastIn.Faculty != faculty {
		t.Errorf("faculty passed to service = %s, want %s", svc.lastIn.Faculty.Hex(), faculty.Hex())
	}
}

func TestUpdateProgress_ReturnsValue(t *testing.T) {
	svc := &stubService{progress: 67}
	h := newHandler(svc)
	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("PUT", "/projects/"+id+"/progress",
		strings.NewReader(`{"progress":50}`), testutil.FacultyUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.UpdateProgress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"progress":67`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDelete_NotFoundIs404(t *testing.T) {
	svc := &stubService{err: apperr.NotFound("project")}
	h := newHandler(svc)
	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("DELETE", "/projects/"+id, nil, testutil.FacultyUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
