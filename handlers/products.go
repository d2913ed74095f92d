package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

const productColumns = `p.product_id, p.brand_id, p.category_id, p.subcategory_id, p.product_name,
	       p.product_category, p.description, p.created_at, p.updated_at,
	       b.brand_name, c.category_name`

func scanProduct(row interface{ Scan(...interface{}) error }) (models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ProductID, &product.BrandID, &product.CategoryID, &product.SubcategoryID,
		&product.ProductName, &product.ProductCategory, &product.Description,
		&product.CreatedAt, &product.UpdatedAt,
		&product.BrandName, &product.CategoryName,
	)
	return product, err
}

// GetProducts lists products with optional brand/category filters
func GetProducts(c *gin.Context) {
	where := []string{}
	args := []interface{}{}

	if v := c.Query("brandId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			args = append(args, id)
			where = append(where, fmt.Sprintf("p.brand_id = $%d", len(args)))
		}
	}
	if v := c.Query("categoryId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			args = append(args, id)
			where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
		}
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.brand_id
		LEFT JOIN product_categories c ON p.category_id = c.category_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			serviceError(c, err)
			return
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns a single product by ID
func GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.brand_id
		LEFT JOIN product_categories c ON p.category_id = c.category_id
		WHERE p.product_id = $1`

	product, err := scanProduct(DB.QueryRow(query, productID))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct inserts a new product
func CreateProduct(c *gin.Context) {
	var req struct {
		ProductName     string  `json:"product_name" binding:"required"`
		BrandID         *int64  `json:"brand_id"`
		CategoryID      *int64  `json:"category_id"`
		SubcategoryID   *int64  `json:"subcategory_id"`
		ProductCategory *string `json:"product_category"`
		Description     *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	var productID int64
	err := DB.QueryRow(`
		INSERT INTO products (brand_id, category_id, subcategory_id, product_name, product_category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id`,
		req.BrandID, req.CategoryID, req.SubcategoryID, req.ProductName, req.ProductCategory, req.Description,
	).Scan(&productID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Product created successfully",
		"product_id": productID,
	})
}

// UpdateProduct patches the fields present in the request body
func UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ProductName     *string `json:"product_name"`
		BrandID         *int64  `json:"brand_id"`
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
	if req.BrandID != nil {
		args = append(args, *req.BrandID)
		set = append(set, fmt.Sprintf("brand_id = $%d", len(args)))
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
	args = append(args, productID)

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE product_id = $%d RETURNING product_id",
		strings.Join(set, ", "), len(args),
	)

	var updatedID int64
	err := DB.QueryRow(query, args...).Scan(&updatedID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct removes a product and everything hanging off it
func DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := DB.Exec(`DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetPublicProducts lists products with review aggregates, search and
// category/brand filters, paginated with a total for the client
func GetPublicProducts(c *gin.Context) {
	limit, offset := pagination(c, 20, 100)

	where := []string{}
	args := []interface{}{}
	if search := c.Query("search"); search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("p.product_name ILIKE $%d", len(args)))
	}
	if category := c.Query("category"); category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("p.product_category = $%d", len(args)))
	}
	if v := c.Query("brandId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			args = append(args, id)
			where = append(where, fmt.Sprintf("p.brand_id = $%d", len(args)))
		}
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := DB.QueryRow("SELECT COUNT(*) FROM products p"+whereClause, args...).Scan(&total)
	if err != nil {
		serviceError(c, err)
		return
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT p.product_id, p.product_name, p.product_category, p.description, p.created_at,
		       b.brand_id, b.brand_name, b.is_verified,
		       COUNT(r.review_id) AS review_count,
		       COALESCE(AVG(r.rating), 0) AS average_rating
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.brand_id
		LEFT JOIN reviews r ON p.product_id = r.product_id
		%s
		GROUP BY p.product_id, b.brand_id
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, len(args)-1, len(args),
	)

	rows, err := DB.Query(query, args...)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	products := []gin.H{}
	for rows.Next() {
		var (
			productID     int64
			name          string
			category      *string
			description   *string
			createdAt     interface{}
			brandID       *int64
			brandName     *string
			brandVerified *bool
			reviewCount   int
			avgRating     float64
		)
		err := rows.Scan(
			&productID, &name, &category, &description, &createdAt,
			&brandID, &brandName, &brandVerified, &reviewCount, &avgRating,
		)
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
			"brand_id":         brandID,
			"brand_name":       brandName,
			"brand_verified":   brandVerified,
			"review_count":     reviewCount,
			"average_rating":   avgRating,
		})
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// GetPublicProduct returns one product with brand info and review aggregates
func GetPublicProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	query := `
		SELECT p.product_id, p.product_name, p.product_category, p.description, p.created_at,
		       b.brand_id, b.brand_name, b.is_verified, b.website,
		       COUNT(r.review_id) AS review_count,
		       COALESCE(AVG(r.rating), 0) AS average_rating
		FROM products p
		LEFT JOIN brands b ON p.brand_id = b.brand_id
		LEFT JOIN reviews r ON p.product_id = r.product_id
		WHERE p.product_id = $1
		GROUP BY p.product_id, b.brand_id`

	var (
		id            int64
		name          string
		category      *string
		description   *string
		createdAt     interface{}
		brandID       *int64
		brandName     *string
		brandVerified *bool
		brandWebsite  *string
		reviewCount   int
		avgRating     float64
	)
	err := DB.QueryRow(query, productID).Scan(
		&id, &name, &category, &description, &createdAt,
		&brandID, &brandName, &brandVerified, &brandWebsite, &reviewCount, &avgRating,
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
		"product_id":       id,
		"product_name":     name,
		"product_category": category,
		"description":      description,
		"created_at":       createdAt,
		"brand_id":         brandID,
		"brand_name":       brandName,
		"brand_verified":   brandVerified,
		"brand_website":    brandWebsite,
		"review_count":     reviewCount,
		"average_rating":   avgRating,
	})
}

// GetPublicProductCategories lists the distinct legacy category labels in use
func GetPublicProductCategories(c *gin.Context) {
	rows, err := DB.Query(`
		SELECT p.product_category, COUNT(*) AS product_count
		FROM products p
		WHERE p.product_category IS NOT NULL
		GROUP BY p.product_category
		ORDER BY p.product_category ASC`)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	categories := []gin.H{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			serviceError(c, err)
			return
		}
		categories = append(categories, gin.H{
			"category":      category,
			"product_count": count,
		})
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetPublicProductMedia lists a product's media files
func GetPublicProductMedia(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	rows, err := DB.Query(`
		SELECT media_id, product_id, file_url, file_type, uploaded_at
		FROM products_media
		WHERE product_id = $1
		ORDER BY uploaded_at DESC`,
		productID,
	)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	media := []models.ProductMedia{}
	for rows.Next() {
		var m models.ProductMedia
		err := rows.Scan(&m.MediaID, &m.ProductID, &m.FileURL, &m.FileType, &m.UploadedAt)
		if err != nil {
			serviceError(c, err)
			return
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}
