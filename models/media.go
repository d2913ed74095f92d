package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaMetadata is the document stored in the media collection. The binary
// itself lives in blob storage; only the URL and bookkeeping live here.
type MediaMetadata struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	FileURL     string             `json:"file_url" bson:"file_url"`
	PublicID    string             `json:"-" bson:"public_id"`
	FileName    string             `json:"file_name" bson:"file_name"`
	ContentType string             `json:"content_type" bson:"content_type"`
	Size        int64              `json:"size" bson:"size"`
	UserID      int64              `json:"user_id" bson:"user_id"`
	ProductID   int64              `json:"product_id" bson:"product_id"`
	UploadedAt  time.Time          `json:"uploaded_at" bson:"uploaded_at"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`
}

type MediaUploadRequest struct {
	File        []byte
	FileName    string
	ContentType string
	UserID      int64
	ProductID   int64
	Tags        []string
}

type MediaUpdateRequest struct {
	FileName *string  `json:"file_name,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
