// internal/app/store/activities/activitystore.go
package activities

import (
	"context"
	"time"

	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedLimit caps the activity feed at the most recent entries per project.
const FeedLimit = 50

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// Insert appends an activity record. The ID is generated here; CreatedAt is
// stamped by the activity logger before the record reaches the store.
func (s *Store) Insert(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// Entry is an activity with the acting user resolved for display.
type Entry struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Project     primitive.ObjectID `bson:"project" json:"project"`
	User        models.UserRef     `bson:"user" json:"user"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Metadata    bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ListByProject returns the newest activities for a project, capped at
// FeedLimit, with the acting user joined in.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]Entry, error) {
	pipe := []bson.M{
		{"$match": bson.M{"project": projectID}},
		{"$sort": bson.M{"created_at": -1}},
		{"$limit": FeedLimit},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"project":     1,
			"type":        1,
			"description": 1,
			"metadata":    1,
			"created_at":  1,
			"user": bson.M{
				"_id":   "$user._id",
				"name":  "$user.name",
				"email": "$user.email",
			},
		}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Entry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByProject removes every activity belonging to the project. Part of
// the project cascade; activities are never deleted individually.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"project": projectID})
	return err
}
