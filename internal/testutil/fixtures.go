package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     name + "@test.edu",
		Role:      role,
		Groups:    []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProject creates a test project owned by faculty with the given
// members.
func (f *Fixtures) CreateProject(ctx context.Context, title string, faculty primitive.ObjectID, members ...primitive.ObjectID) models.Project {
	f.t.Helper()

	if members == nil {
		members = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Faculty:   faculty,
		Members:   members,
		Status:    models.ProjectActive,
		Files:     []models.FileRef{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateTask creates a test task on the project.
func (f *Fixtures) CreateTask(ctx context.Context, project primitive.ObjectID, title, status string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Project:   project,
		Status:    status,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateSubmission creates a pending test submission.
func (f *Fixtures) CreateSubmission(ctx context.Context, project, submitter primitive.ObjectID) models.Submission {
	f.t.Helper()

	s := models.Submission{
		ID:          primitive.NewObjectID(),
		Project:     project,
		SubmittedBy: submitter,
		Files:       []models.FileRef{},
		Status:      models.SubmissionPending,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("submissions").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}
	return s
}
