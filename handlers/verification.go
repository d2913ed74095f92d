package handlers

import (
	"database/sql"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// SubmitBrandVerification moves the authenticated brand into the pending
// verification queue
func SubmitBrandVerification(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	// The body is optional; an empty request just resubmits with current details.
	var req struct {
		Website *string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var status string
	err := DB.QueryRow(
		`SELECT verification_status FROM brands WHERE brand_id = $1`, brandID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	if status == "pending" {
		c.JSON(http.StatusConflict, gin.H{"error": "Verification already pending"})
		return
	}
	if status == "approved" {
		c.JSON(http.StatusConflict, gin.H{"error": "Brand is already verified"})
		return
	}

	query := `
		UPDATE brands
		SET verification_status = 'pending', updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{brandID}
	if req.Website != nil {
		query += `, website = $2`
		args = append(args, *req.Website)
	}
	query += ` WHERE brand_id = $1`

	if _, err := DB.Exec(query, args...); err != nil {
		serviceError(c, err)
		return
	}

	logrus.WithField("brand_id", brandID).Info("brand verification submitted")

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification request submitted",
		"status":  "pending",
	})
}

// GetBrandVerificationStatus returns the authenticated brand's current status
func GetBrandVerificationStatus(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	var status string
	var isVerified bool
	err := DB.QueryRow(
		`SELECT verification_status, is_verified FROM brands WHERE brand_id = $1`, brandID,
	).Scan(&status, &isVerified)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verification_status": status,
		"is_verified":         isVerified,
	})
}

// GetPendingVerifications lists brands awaiting verification (admin only)
func GetPendingVerifications(c *gin.Context) {
	rows, err := DB.Query(`
		SELECT brand_id, brand_name, email, is_verified, verification_status, website, created_at, updated_at
		FROM brands
		WHERE verification_status = 'pending'
		ORDER BY updated_at ASC`)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var brand models.Brand
		err := rows.Scan(
			&brand.BrandID, &brand.BrandName, &brand.Email, &brand.IsVerified,
			&brand.VerificationStatus, &brand.Website, &brand.CreatedAt, &brand.UpdatedAt,
		)
		if err != nil {
			serviceError(c, err)
			return
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// ProcessBrandVerification approves or rejects a pending brand (admin only)
func ProcessBrandVerification(c *gin.Context) {
	var req struct {
		BrandID int64  `json:"brand_id" binding:"required"`
		Action  string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Brand ID and action are required"})
		return
	}

	var status string
	var verified bool
	switch req.Action {
	case "approve":
		status, verified = "approved", true
	case "reject":
		status, verified = "rejected", false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be approve or reject"})
		return
	}

	result, err := DB.Exec(`
		UPDATE brands
		SET verification_status = $1, is_verified = $2, updated_at = CURRENT_TIMESTAMP
		WHERE brand_id = $3 AND verification_status = 'pending'`,
		status, verified, req.BrandID,
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending verification for this brand"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"brand_id": req.BrandID,
		"action":   req.Action,
	}).Info("brand verification processed")

	c.JSON(http.StatusOK, gin.H{
		"message":             "Verification processed",
		"brand_id":            req.BrandID,
		"verification_status": status,
	})
}
