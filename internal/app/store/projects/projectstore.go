// internal/app/store/projects/projectstore.go
package projects

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
	return &Store{c: db.Collection("projects")}
}

// GetByID loads a project. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Insert creates a project with generated ID and timestamps. Members and
// Files are normalized to empty slices so responses marshal as [] instead of
// null.
func (s *Store) Insert(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if p.Members == nil {
		p.Members = []primitive.ObjectID{}
	}
	if p.Files == nil {
		p.Files = []models.FileRef{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Patch is a partial project update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    *time.Time
}

// Update applies the patch and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Deadline != nil {
		set["deadline"] = *patch.Deadline
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Delete removes a project document. Children are the mutation service's
// responsibility; the storage layer has no cascade.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddMember appends the member reference. $addToSet keeps the list a set
// even if a racing request slips past the service-level duplicate check.
func (s *Store) AddMember(ctx context.Context, projectID, memberID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$addToSet": bson.M{"members": memberID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMember pulls the member reference.
func (s *Store) RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$pull": bson.M{"members": memberID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// SetProgress stores a recomputed progress value.
func (s *Store) SetProgress(ctx context.Context, projectID primitive.ObjectID, progress int) error {
	_, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$set": bson.M{"progress": progress, "updated_at": time.Now().UTC()},
	})
	return err
}

// AddFile appends an upload descriptor to the project's file list.
func (s *Store) AddFile(ctx context.Context, projectID primitive.ObjectID, f models.FileRef) error {
	_, err := s.c.UpdateByID(ctx, projectID, bson.M{
		"$push": bson.M{"files": f},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Filter scopes project listings. Zero-value means no constraint.
type Filter struct {
	Faculty primitive.ObjectID // projects owned by this faculty
	Member  primitive.ObjectID // projects this user belongs to
}

// List returns projects matching the filter, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Project, error) {
	q := bson.M{}
	if !f.Faculty.IsZero() {
		q["faculty"] = f.Faculty
	}
	if !f.Member.IsZero() {
		q["members"] = f.Member
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
