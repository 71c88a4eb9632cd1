package tasks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/projecthubhq/projecthub/internal/app/features/tasks"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"github.com/projecthubhq/projecthub/internal/app/system/authz"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"github.com/projecthubhq/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubService struct {
	err          error
	task         models.Task
	list         []models.Task
	lastCreate   mutation.CreateTaskInput
	lastUpdate   mutation.UpdateTaskInput
	lastProjByID primitive.ObjectID
}

func (s *stubService) CreateTask(_ context.Context, _ authz.Actor, in mutation.CreateTaskInput) (models.Task, error) {
	s.lastCreate = in
	return s.task, s.err
}

func (s *stubService) GetTask(context.Context, authz.Actor, primitive.ObjectID) (models.Task, error) {
	return s.task, s.err
}

func (s *stubService) UpdateTask(_ context.Context, _ authz.Actor, _ primitive.ObjectID, in mutation.UpdateTaskInput) (models.Task, error) {
	s.lastUpdate = in
	return s.task, s.err
}

func (s *stubService) DeleteTask(context.Context, authz.Actor, primitive.ObjectID) error {
	return s.err
}

func (s *stubService) ListTasks(_ context.Context, _ authz.Actor, projectID primitive.ObjectID) ([]models.Task, error) {
	s.lastProjByID = projectID
	return s.list, s.err
}

func TestCreate_RequiresValidProjectID(t *testing.T) {
	h := tasks.NewHandler(&stubService{}, zap.NewNop())
	req := testutil.NewAuthenticatedRequest("POST", "/tasks",
		strings.NewReader(`{"project":"garbage","title":"X"}`), testutil.FacultyUser())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_PassesAssignee(t *testing.T) {
	svc := &stubService{}
	h := tasks.NewHandler(svc, zap.NewNop())
	project := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	body := `{"project":"` + project.Hex() + `","title":"Build","assigned_to":"` + assignee.Hex() + `"}`
	req := testutil.NewAuthenticatedRequest("POST", "/tasks", strings.NewReader(body), testutil.FacultyUser())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate.AssignedTo == nil || *svc.lastCreate.AssignedTo != assignee {
		t.Errorf("assignee not passed through: %+v", svc.lastCreate)
	}
}

func TestUpdate_EmptyAssigneeClears(t *testing.T) {
	svc := &stubService{}
	h := tasks.NewHandler(svc, zap.NewNop())
	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("PUT", "/tasks/"+id,
		strings.NewReader(`{"assigned_to":""}`), testutil.FacultyUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.AssignedTo == nil {
		t.Fatal("clear request should reach the service")
	}
	if *svc.lastUpdate.AssignedTo != nil {
		t.Error("empty assigned_to should clear, not set")
	}
}

func TestUpdate_OmittedAssigneeIsUntouched(t *testing.T) {
	svc := &stubService{}
	h := tasks.NewHandler(svc, zap.NewNop())
	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("PUT", "/tasks/"+id,
		strings.NewReader(`{"status":"done"}`), testutil.FacultyUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastUpdate.AssignedTo != nil {
		t.Error("omitted assigned_to must not reach the service")
	}
	if svc.lastUpdate.Status == nil || *svc.lastUpdate.Status != "done" {
		t.Errorf("status patch = %v", svc.lastUpdate.Status)
	}
}

func TestList_ForwardsProjectFilter(t *testing.T) {
	svc := &stubService{}
	h := tasks.NewHandler(svc, zap.NewNop())
	project := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/tasks?project="+project.Hex(), nil, testutil.StudentUser())
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.lastProjByID != project {
		t.Errorf("project filter = %s, want %s", svc.lastProjByID.Hex(), project.Hex())
	}
}

func TestDelete_MapsDeniedTo403(t *testing.T) {
	svc := &stubService{err: apperr.Denied("only the owning faculty deletes tasks")}
	h := tasks.NewHandler(svc, zap.NewNop())
	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("DELETE", "/tasks/"+id, nil, testutil.StudentUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
