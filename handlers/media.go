package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// UploadMedia stores a user-submitted file and its metadata document
func UploadMedia(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	productID, ok := parseQueryID(c, c.PostForm("product_id"), "product_id")
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		serviceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serviceError(c, err)
		return
	}

	fileName := c.PostForm("file_name")
	if fileName == "" {
		fileName = fileHeader.Filename
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	doc, err := Media.Upload(c.Request.Context(), models.MediaUploadRequest{
		File:        data,
		FileName:    fileName,
		ContentType: fileHeader.Header.Get("Content-Type"),
		UserID:      userID,
		ProductID:   productID,
		Tags:        tags,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Media uploaded successfully",
		"media":   doc,
	})
}

// GetMedia lists the media documents of a product
func GetMedia(c *gin.Context) {
	v := c.Query("productId")
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId query parameter is required"})
		return
	}
	productID, ok := parseQueryID(c, v, "productId")
	if !ok {
		return
	}

	docs, err := Media.ByProduct(c.Request.Context(), productID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": docs})
}

// UpdateMedia patches a media document's file name and tags
func UpdateMedia(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.MediaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.FileName == nil && req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}

	doc, err := Media.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Media updated successfully",
		"media":   doc,
	})
}

// DeleteMedia removes a media document and its stored blob
func DeleteMedia(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := Media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
}
