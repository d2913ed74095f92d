package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// MediaService stores uploaded files in Cloudinary and their metadata as
// documents in the media collection. The relational store is only consulted
// to verify that the referenced product exists.
type MediaService struct {
	db    *sql.DB
	media *mongo.Collection
	cld   *cloudinary.Cloudinary
}

func NewMediaService(db *sql.DB, media *mongo.Collection, cld *cloudinary.Cloudinary) *MediaService {
	return &MediaService{db: db, media: media, cld: cld}
}

// Upload pushes the file to blob storage and records its metadata document.
func (s *MediaService) Upload(ctx context.Context, req models.MediaUploadRequest) (*models.MediaMetadata, error) {
	var productID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT product_id FROM products WHERE product_id = $1`, req.ProductID,
	).Scan(&productID)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	url, publicID, err := s.uploadBlob(ctx, req.File, "media", req.FileName)
	if err != nil {
		return nil, err
	}

	doc := models.MediaMetadata{
		FileURL:     url,
		PublicID:    publicID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        int64(len(req.File)),
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		UploadedAt:  time.Now().UTC(),
		Tags:        req.Tags,
	}

	result, err := s.media.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to store media metadata: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}

	logrus.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"file_name":  req.FileName,
		"size":       doc.Size,
	}).Info("media uploaded")

	return &doc, nil
}

// ByProduct lists the metadata documents referencing a product.
func (s *MediaService) ByProduct(ctx context.Context, productID int64) ([]models.MediaMetadata, error) {
	cursor, err := s.media.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []models.MediaMetadata{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update patches file_name and tags on a metadata document.
func (s *MediaService) Update(ctx context.Context, mediaID string, req models.MediaUpdateRequest) (*models.MediaMetadata, error) {
	objectID, err := primitive.ObjectIDFromHex(mediaID)
	if err != nil {
		return nil, ErrMediaNotFound
	}

	set := bson.M{}
	if req.FileName != nil {
		set["file_name"] = *req.FileName
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no update fields provided")
	}

	var doc models.MediaMetadata
	err = s.media.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes the blob first, then the metadata document.
func (s *MediaService) Delete(ctx context.Context, mediaID string) error {
	objectID, err := primitive.ObjectIDFromHex(mediaID)
	if err != nil {
		return ErrMediaNotFound
	}

	var doc models.MediaMetadata
	err = s.media.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return ErrMediaNotFound
	}
	if err != nil {
		return err
	}

	if doc.PublicID != "" {
		_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: doc.PublicID})
		if err != nil {
			logrus.WithError(err).WithField("public_id", doc.PublicID).Warn("failed to delete blob")
		}
	}

	_, err = s.media.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

// UploadProductFile uploads a brand's product media file and returns its URL.
// The caller records the products_media row.
func (s *MediaService) UploadProductFile(ctx context.Context, productID int64, data []byte, fileName string) (string, error) {
	url, _, err := s.uploadBlob(ctx, data, fmt.Sprintf("products/%d", productID), fileName)
	return url, err
}

func (s *MediaService) uploadBlob(ctx context.Context, data []byte, folder, fileName string) (url, publicID string, err error) {
	publicID = fmt.Sprintf("%s/%s_%s", folder, uuid.NewString(), fileName)

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload blob: %w", err)
	}

	url = result.SecureURL
	if url == "" {
		url = result.URL
	}
	return url, result.PublicID, nil
}
