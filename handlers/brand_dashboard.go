package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// 10 MB per uploaded file
const maxUploadSize = 10 << 20

// GetBrandDashboard summarizes the authenticated brand's products: counts,
// overall average rating and the most recent reviews
func GetBrandDashboard(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	var productCount, reviewCount int
	var avgRating sql.NullFloat64
	err := DB.QueryRow(`
		SELECT COUNT(DISTINCT p.product_id) AS product_count,
		       COUNT(r.review_id) AS review_count,
		       AVG(r.rating) AS average_rating
		FROM products p
		LEFT JOIN reviews r ON p.product_id = r.product_id
		WHERE p.brand_id = $1`,
		brandID,
	).Scan(&productCount, &reviewCount, &avgRating)
	if err != nil {
		serviceError(c, err)
		return
	}

	rows, err := DB.Query(`
		SELECT r.review_id, r.product_id, r.user_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
		       p.product_name, u.username
		FROM reviews r
		JOIN products p ON r.product_id = p.product_id
		JOIN users u ON r.user_id = u.user_id
		WHERE p.brand_id = $1
		ORDER BY r.created_at DESC
		LIMIT 5`,
		brandID,
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	recentReviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ReviewID, &review.ProductID, &review.UserID, &review.Title, &review.Content,
			&review.Rating, &review.CreatedAt, &review.UpdatedAt,
			&review.ProductName, &review.Username,
		)
		if err != nil {
			serviceError(c, err)
			return
		}
		recentReviews = append(recentReviews, review)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_count":  productCount,
		"review_count":   reviewCount,
		"average_rating": avgRating.Float64,
		"recent_reviews": recentReviews,
	})
}

// GetBrandProducts lists the authenticated brand's products with review stats
func GetBrandProducts(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	rows, err := DB.Query(`
		SELECT p.product_id, p.product_name, p.product_category, p.description, p.created_at, p.updated_at,
		       COUNT(r.review_id) AS review_count,
		       COALESCE(AVG(r.rating), 0) AS average_rating
		FROM products p
		LEFT JOIN reviews r ON p.product_id = r.product_id
		WHERE p.brand_id = $1
		GROUP BY p.product_id
		ORDER BY p.created_at DESC`,
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
			productID            int64
			name                 string
			category             *string
			description          *string
			createdAt, updatedAt time.Time
			reviewCount          int
			avgRating            float64
		)
		err := rows.Scan(&productID, &name, &category, &description, &createdAt, &updatedAt, &reviewCount, &avgRating)
		if err != nil {
			serviceError(c, err)
			return
		}
		products = append(products, gin.H{
			"product_id":       productID,
			"product_name":     name,
			"product_category": category,
			"description":      description,
			"created_at":       createdAt,
			"updated_at":       updatedAt,
			"review_count":     reviewCount,
			"average_rating":   avgRating,
		})
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateBrandProduct creates a product owned by the authenticated brand
func CreateBrandProduct(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}

	var req struct {
		ProductName     string  `json:"product_name" binding:"required"`
		CategoryID      *int64  `json:"category_id"`
		SubcategoryID   *int64  `json:"subcategory_id"`
		ProductCategory *string `json:"product_category"`
		Description     *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	var duplicate bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM products WHERE brand_id = $1 AND product_name = $2)`,
		brandID, req.ProductName,
	).Scan(&duplicate)
	if err != nil {
		serviceError(c, err)
		return
	}
	if duplicate {
		c.JSON(http.StatusConflict, gin.H{"error": "Product with this name already exists for this brand"})
		return
	}

	var product models.Product
	err = DB.QueryRow(`
		INSERT INTO products (brand_id, category_id, subcategory_id, product_name, product_category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id, brand_id, category_id, subcategory_id, product_name, product_category, description, created_at, updated_at`,
		brandID, req.CategoryID, req.SubcategoryID, req.ProductName, req.ProductCategory, req.Description,
	).Scan(
		&product.ProductID, &product.BrandID, &product.CategoryID, &product.SubcategoryID,
		&product.ProductName, &product.ProductCategory, &product.Description,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateBrandProduct patches one of the authenticated brand's own products.
// A product owned by another brand reads as not found.
func UpdateBrandProduct(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req struct {
		ProductName     *string `json:"product_name"`
		CategoryID      *int64  `json:"category_id"`
		SubcategoryID   *int64  `json:"subcategory_id"`
		ProductCategory *string `json:"product_category"`
		Description     *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	if req.ProductName != nil {
		args = append(args, *req.ProductName)
		set = append(set, fmt.Sprintf("product_name = $%d", len(args)))
	}
	if req.CategoryID != nil {
		args = append(args, *req.CategoryID)
		set = append(set, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if req.SubcategoryID != nil {
		args = append(args, *req.SubcategoryID)
		set = append(set, fmt.Sprintf("subcategory_id = $%d", len(args)))
	}
	if req.ProductCategory != nil {
		args = append(args, *req.ProductCategory)
		set = append(set, fmt.Sprintf("product_category = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	args = append(args, productID, brandID)

	query := fmt.Sprintf(`
		UPDATE products SET %s WHERE product_id = $%d AND brand_id = $%d
		RETURNING product_id, brand_id, category_id, subcategory_id, product_name, product_category, description, created_at, updated_at`,
		strings.Join(set, ", "), len(args)-1, len(args),
	)

	var product models.Product
	err := DB.QueryRow(query, args...).Scan(
		&product.ProductID, &product.BrandID, &product.CategoryID, &product.SubcategoryID,
		&product.ProductName, &product.ProductCategory, &product.Description,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// GetBrandProductReviews lists the reviews of one of the brand's own products
func GetBrandProductReviews(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if !brandOwnsProduct(c, brandID, productID) {
		return
	}

	reviews, err := Reviews.ReviewsByProduct(c.Request.Context(), productID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UploadBrandProductMedia accepts multipart files for one of the brand's own
// products, stores the blobs and records products_media rows
func UploadBrandProductMedia(c *gin.Context) {
	brandID, ok := currentBrandID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Brand authentication required"})
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if !brandOwnsProduct(c, brandID, productID) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multipart form required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one file is required"})
		return
	}

	uploaded := []models.ProductMedia{}
	for _, fileHeader := range files {
		if fileHeader.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit: " + fileHeader.Filename})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			serviceError(c, err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			serviceError(c, err)
			return
		}

		fileURL, err := Media.UploadProductFile(c.Request.Context(), productID, data, fileHeader.Filename)
		if err != nil {
			serviceError(c, err)
			return
		}

		var m models.ProductMedia
		err = DB.QueryRow(`
			INSERT INTO products_media (product_id, file_url, file_type)
			VALUES ($1, $2, $3)
			RETURNING media_id, product_id, file_url, file_type, uploaded_at`,
			productID, fileURL, fileHeader.Header.Get("Content-Type"),
		).Scan(&m.MediaID, &m.ProductID, &m.FileURL, &m.FileType, &m.UploadedAt)
		if err != nil {
			serviceError(c, err)
			return
		}
		uploaded = append(uploaded, m)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Media uploaded successfully",
		"media":   uploaded,
	})
}

// brandOwnsProduct writes the error response itself when ownership fails.
func brandOwnsProduct(c *gin.Context, brandID, productID int64) bool {
	var owned bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1 AND brand_id = $2)`,
		productID, brandID,
	).Scan(&owned)
	if err != nil {
		serviceError(c, err)
		return false
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return false
	}
	return true
}
