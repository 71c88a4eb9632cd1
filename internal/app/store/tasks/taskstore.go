// internal/app/store/tasks/taskstore.go
package tasks

import (
	"context"
	"time"

	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// GetByID loads a task. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Insert creates a task with generated ID and timestamps.
func (s *Store) Insert(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  **primitive.ObjectID
	Deadline    *time.Time
}

// Update applies the patch and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == nil {
			unset["assigned_to"] = ""
		} else {
			set["assigned_to"] = **patch.AssignedTo
		}
	}
	if patch.Deadline != nil {
		set["deadline"] = *patch.Deadline
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a single task.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByProject removes every task belonging to the project. Part of the
// project cascade.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"project": projectID})
	return err
}

// ListByProject returns all tasks of a project. The progress calculator
// always works from this full set rather than maintained counters.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, bson.M{"project": projectID})
}

// ListByAssignee returns tasks assigned to the user.
func (s *Store) ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, bson.M{"assigned_to": userID})
}

// ListVisibleToStudent returns tasks the student can see: assigned to them,
// or belonging to any project they are a member of.
func (s *Store) ListVisibleToStudent(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if projectIDs == nil {
		projectIDs = []primitive.ObjectID{}
	}
	return s.find(ctx, bson.M{"$or": bson.A{
		bson.M{"assigned_to": userID},
		bson.M{"project": bson.M{"$in": projectIDs}},
	}})
}

// ListByProjects returns tasks across the given projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	return s.find(ctx, bson.M{"project": bson.M{"$in": projectIDs}})
}

// ListAll returns every task. Admin listings only.
func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, q bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
