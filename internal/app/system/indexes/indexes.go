// Package indexes creates the MongoDB indexes the query paths rely on.
// Index creation is idempotent; EnsureAll runs on every startup.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index the application queries depend on.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "groups", Value: 1}}},
		},
		"projects": {
			{Keys: bson.D{{Key: "faculty", Value: 1}}},
			{Keys: bson.D{{Key: "members", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		"tasks": {
			{Keys: bson.D{{Key: "project", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		},
		"submissions": {
			{Keys: bson.D{{Key: "project", Value: 1}, {Key: "submitted_at", Value: -1}}},
			{Keys: bson.D{{Key: "submitted_by", Value: 1}}},
		},
		"activities": {
			// The feed query: per-project, newest first, limit 50.
			{Keys: bson.D{{Key: "project", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", coll), zap.Int("count", len(models)))
	}
	return nil
}
