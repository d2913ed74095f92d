package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// GetPublicBrands lists brands with optional name search, paginated
func GetPublicBrands(c *gin.Context) {
	limit, offset := pagination(c, 20, 100)
	search := c.Query("search")

	where := ""
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = "WHERE brand_name ILIKE $1"
	}

	var total int
	err := DB.QueryRow("SELECT COUNT(*) FROM brands "+where, args...).Scan(&total)
	if err != nil {
		serviceError(c, err)
		return
	}

	args = append(args, limit, offset)
	query := `
		SELECT brand_id, brand_name, email, is_verified, verification_status, website, created_at, updated_at
		FROM brands ` + where + `
		ORDER BY brand_name ASC`
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := DB.Query(query, args...)
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

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"total":  total,
	})
}

// GetPublicBrand returns one brand with its products and their review stats
func GetPublicBrand(c *gin.Context) {
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}

	var brand models.Brand
	err := DB.QueryRow(`
		SELECT brand_id, brand_name, email, is_verified, verification_status, website, created_at, updated_at
		FROM brands WHERE brand_id = $1`,
		brandID,
	).Scan(
		&brand.BrandID, &brand.BrandName, &brand.Email, &brand.IsVerified,
		&brand.VerificationStatus, &brand.Website, &brand.CreatedAt, &brand.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	rows, err := DB.Query(`
		SELECT p.product_id, p.product_name, p.product_category, p.description,
		       COUNT(r.review_id) AS review_count,
		       COALESCE(AVG(r.rating), 0) AS average_rating
		FROM products p
		LEFT JOIN reviews r ON p.product_id = r.product_id
		WHERE p.brand_id = $1
		GROUP BY p.product_id
		ORDER BY p.product_name ASC`,
		brandID,
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	products := []gin.H{}
	for rows.Next() {
		var (
			productID   int64
			name        string
			category    *string
			description *string
			reviewCount int
			avgRating   float64
		)
		if err := rows.Scan(&productID, &name, &category, &description, &reviewCount, &avgRating); err != nil {
			serviceError(c, err)
			return
		}
		products = append(products, gin.H{
			"product_id":       productID,
			"product_name":     name,
			"product_category": category,
			"description":      description,
			"review_count":     reviewCount,
			"average_rating":   avgRating,
		})
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand":    brand,
		"products": products,
	})
}
