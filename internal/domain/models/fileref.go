// internal/domain/models/fileref.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileRef describes a stored upload. The physical bytes live in the file
// storage backend; documents only carry these descriptors.
type FileRef struct {
	StoredName   string              `bson:"stored_name" json:"stored_name"`
	OriginalName string              `bson:"original_name" json:"original_name"`
	Path         string              `bson:"path" json:"path"`
	Size         int64               `bson:"size" json:"size"`
	MimeType     string              `bson:"mime_type" json:"mime_type"`
	UploadedBy   *primitive.ObjectID `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	UploadedAt   time.Time           `bson:"uploaded_at" json:"uploaded_at"`
}
