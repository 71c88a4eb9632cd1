// internal/app/store/submissions/submissionstore.go
package submissions

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
	return &Store{c: db.Collection("submissions")}
}

// GetByID loads a submission. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Insert creates a submission with generated ID, pending status, and a
// submission timestamp.
func (s *Store) Insert(ctx context.Context, sub models.Submission) (models.Submission, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	if sub.Status == "" {
		sub.Status = models.SubmissionPending
	}
	if sub.Files == nil {
		sub.Files = []models.FileRef{}
	}
	sub.SubmittedAt = now
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Review records a review verdict and stamps the reviewer.
type Review struct {
	Status     string
	Grade      *int
	Feedback   string
	ReviewedBy primitive.ObjectID
	ReviewedAt time.Time
}

// ApplyReview sets the review fields and returns the updated document.
func (s *Store) ApplyReview(ctx context.Context, id primitive.ObjectID, r Review) (models.Submission, error) {
	set := bson.M{
		"status":      r.Status,
		"feedback":    r.Feedback,
		"reviewed_by": r.ReviewedBy,
		"reviewed_at": r.ReviewedAt,
	}
	if r.Grade != nil {
		set["grade"] = *r.Grade
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sub models.Submission
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Delete removes a single submission.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByProject returns submissions for a project. Used by the cascade to
// collect file paths before deletion as well as by listings.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Submission, error) {
	return s.find(ctx, bson.M{"project": projectID})
}

// ListBySubmitter returns a user's own submissions.
func (s *Store) ListBySubmitter(ctx context.Context, userID primitive.ObjectID) ([]models.Submission, error) {
	return s.find(ctx, bson.M{"submitted_by": userID})
}

// ListByProjects returns submissions across the given projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Submission, error) {
	if len(projectIDs) == 0 {
		return []models.Submission{}, nil
	}
	return s.find(ctx, bson.M{"project": bson.M{"$in": projectIDs}})
}

// ListAll returns every submission. Admin listings only.
func (s *Store) ListAll(ctx context.Context) ([]models.Submission, error) {
	return s.find(ctx, bson.M{})
}

// DeleteByProject removes every submission belonging to the project.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"project": projectID})
	return err
}

func (s *Store) find(ctx context.Context, q bson.M) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
