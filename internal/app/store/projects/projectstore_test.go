package projects_test

import (
	"errors"
	"testing"

	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"github.com/projecthubhq/projecthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.Project{
		Title:   "Capstone",
		Faculty: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.ProjectActive {
		t.Errorf("expected status %q, got %q", models.ProjectActive, created.Status)
	}
	if created.Members == nil || created.Files == nil {
		t.Error("expected Members and Files to be normalized to empty slices")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_Update_PartialPatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.Project{
		Title:       "Original",
		Description: "Keep me",
		Faculty:     primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	title := "Renamed"
	status := models.ProjectCompleted
	updated, err := store.Update(ctx, created.ID, projectstore.Patch{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("Title: got %q, want %q", updated.Title, "Renamed")
	}
	if updated.Status != models.ProjectCompleted {
		t.Errorf("Status: got %q, want %q", updated.Status, models.ProjectCompleted)
	}
	if updated.Description != "Keep me" {
		t.Errorf("Description should be untouched, got %q", updated.Description)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestStore_AddMember_IsSetSemantics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.Project{Title: "P", Faculty: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	member := primitive.NewObjectID()
	if err := store.AddMember(ctx, created.ID, member); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.AddMember(ctx, created.ID, member); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	p, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(p.Members) != 1 {
		t.Errorf("expected 1 member after duplicate add, got %d", len(p.Members))
	}

	if err := store.RemoveMember(ctx, created.ID, member); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	p, _ = store.GetByID(ctx, created.ID)
	if len(p.Members) != 0 {
		t.Errorf("expected 0 members after remove, got %d", len(p.Members))
	}
}

func TestStore_SetProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.Project{Title: "P", Faculty: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.SetProgress(ctx, created.ID, 67); err != nil {
		t.Fatalf("SetProgress failed: %v", err)
	}
	p, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Progress != 67 {
		t.Errorf("Progress: got %d, want 67", p.Progress)
	}
}

func TestStore_List_FilterScopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faculty := primitive.NewObjectID()
	member := primitive.NewObjectID()

	owned, err := store.Insert(ctx, models.Project{Title: "Owned", Faculty: faculty})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	joined, err := store.Insert(ctx, models.Project{
		Title:   "Joined",
		Faculty: primitive.NewObjectID(),
		Members: []primitive.ObjectID{member},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, models.Project{Title: "Other", Faculty: primitive.NewObjectID()}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	byFaculty, err := store.List(ctx, projectstore.Filter{Faculty: faculty})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byFaculty) != 1 || byFaculty[0].ID != owned.ID {
		t.Errorf("faculty filter returned %d projects", len(byFaculty))
	}

	byMember, err := store.List(ctx, projectstore.Filter{Member: member})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byMember) != 1 || byMember[0].ID != joined.ID {
		t.Errorf("member filter returned %d projects", len(byMember))
	}

	all, err := store.List(ctx, projectstore.Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered list returned %d projects, want 3", len(all))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.Project{Title: "Doomed", Faculty: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = store.GetByID(ctx, created.ID)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}
}
