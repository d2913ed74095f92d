package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hallvardkul/RateMate-Backend/models"
)

// GetCategories lists the active product categories
func GetCategories(c *gin.Context) {
	rows, err := DB.Query(`
		SELECT category_id, category_name, description, is_active, created_at
		FROM product_categories
		WHERE is_active = true
		ORDER BY category_name ASC`)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	categories := []models.ProductCategory{}
	for rows.Next() {
		var cat models.ProductCategory
		if err := rows.Scan(&cat.CategoryID, &cat.CategoryName, &cat.Description, &cat.IsActive, &cat.CreatedAt); err != nil {
			serviceError(c, err)
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns one category with its subcategories
func GetCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var cat models.ProductCategory
	err := DB.QueryRow(`
		SELECT category_id, category_name, description, is_active, created_at
		FROM product_categories WHERE category_id = $1`,
		categoryID,
	).Scan(&cat.CategoryID, &cat.CategoryName, &cat.Description, &cat.IsActive, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	subcategories, err := subcategoriesOf(categoryID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":      cat,
		"subcategories": subcategories,
	})
}

// GetCategorySubcategories lists the subcategories of one category
func GetCategorySubcategories(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM product_categories WHERE category_id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	subcategories, err := subcategoriesOf(categoryID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcategories": subcategories})
}

// CreateCategory inserts a new product category
func CreateCategory(c *gin.Context) {
	var req struct {
		CategoryName string  `json:"category_name" binding:"required"`
		Description  *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	var cat models.ProductCategory
	err := DB.QueryRow(`
		INSERT INTO product_categories (category_name, description)
		VALUES ($1, $2)
		RETURNING category_id, category_name, description, is_active, created_at`,
		req.CategoryName, req.Description,
	).Scan(&cat.CategoryID, &cat.CategoryName, &cat.Description, &cat.IsActive, &cat.CreatedAt)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

// UpdateCategory patches the fields present in the request body
func UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		CategoryName *string `json:"category_name"`
		Description  *string `json:"description"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	set := []string{}
	args := []interface{}{}
	if req.CategoryName != nil {
		args = append(args, *req.CategoryName)
		set = append(set, fmt.Sprintf("category_name = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		set = append(set, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}
	args = append(args, categoryID)

	query := fmt.Sprintf(`
		UPDATE product_categories SET %s WHERE category_id = $%d
		RETURNING category_id, category_name, description, is_active, created_at`,
		strings.Join(set, ", "), len(args),
	)

	var cat models.ProductCategory
	err := DB.QueryRow(query, args...).Scan(&cat.CategoryID, &cat.CategoryName, &cat.Description, &cat.IsActive, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// DeleteCategory removes a category; products keep their rows with a null category
func DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := DB.Exec(`DELETE FROM product_categories WHERE category_id = $1`, categoryID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// GetSubcategories lists subcategories, optionally filtered by parent category
func GetSubcategories(c *gin.Context) {
	if v := c.Query("categoryId"); v != "" {
		categoryID, ok := parseQueryID(c, v, "categoryId")
		if !ok {
			return
		}
		subcategories, err := subcategoriesOf(categoryID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subcategories": subcategories})
		return
	}

	rows, err := DB.Query(`
		SELECT s.subcategory_id, s.parent_category_id, s.subcategory_name, s.description, s.is_active, s.created_at,
		       c.category_name
		FROM product_subcategories s
		JOIN product_categories c ON s.parent_category_id = c.category_id
		WHERE s.is_active = true
		ORDER BY c.category_name ASC, s.subcategory_name ASC`)
	if err != nil {
		serviceError(c, err)
		return
	}
	defer rows.Close()

	subcategories := []models.ProductSubcategory{}
	for rows.Next() {
		var sub models.ProductSubcategory
		err := rows.Scan(
			&sub.SubcategoryID, &sub.ParentCategoryID, &sub.SubcategoryName, &sub.Description,
			&sub.IsActive, &sub.CreatedAt, &sub.ParentCategoryName,
		)
		if err != nil {
			serviceError(c, err)
			return
		}
		subcategories = append(subcategories, sub)
	}
	if err := rows.Err(); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcategories": subcategories})
}

// GetSubcategory returns a single subcategory with its parent's name
func GetSubcategory(c *gin.Context) {
	subcategoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var sub models.ProductSubcategory
	err := DB.QueryRow(`
		SELECT s.subcategory_id, s.parent_category_id, s.subcategory_name, s.description, s.is_active, s.created_at,
		       c.category_name
		FROM product_subcategories s
		JOIN product_categories c ON s.parent_category_id = c.category_id
		WHERE s.subcategory_id = $1`,
		subcategoryID,
	).Scan(
		&sub.SubcategoryID, &sub.ParentCategoryID, &sub.SubcategoryName, &sub.Description,
		&sub.IsActive, &sub.CreatedAt, &sub.ParentCategoryName,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcategory": sub})
}

// CreateSubcategory inserts a subcategory under an existing category
func CreateSubcategory(c *gin.Context) {
	var req struct {
		ParentCategoryID int64   `json:"parent_category_id" binding:"required"`
		SubcategoryName  string  `json:"subcategory_name" binding:"required"`
		Description      *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category ID and subcategory name are required"})
		return
	}

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM product_categories WHERE category_id = $1)`, req.ParentCategoryID,
	).Scan(&exists)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var sub models.ProductSubcategory
	err = DB.QueryRow(`
		INSERT INTO product_subcategories (parent_category_id, subcategory_name, description)
		VALUES ($1, $2, $3)
		RETURNING subcategory_id, parent_category_id, subcategory_name, description, is_active, created_at`,
		req.ParentCategoryID, req.SubcategoryName, req.Description,
	).Scan(&sub.SubcategoryID, &sub.ParentCategoryID, &sub.SubcategoryName, &sub.Description, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}

// UpdateSubcategory patches the fields present in the request body
func UpdateSubcategory(c *gin.Context) {
	subcategoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		SubcategoryName *string `json:"subcategory_name"`
		Description     *string `json:"description"`
		IsActive        *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	set := []string{}
	args := []interface{}{}
	if req.SubcategoryName != nil {
		args = append(args, *req.SubcategoryName)
		set = append(set, fmt.Sprintf("subcategory_name = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		set = append(set, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}
	args = append(args, subcategoryID)

	query := fmt.Sprintf(`
		UPDATE product_subcategories SET %s WHERE subcategory_id = $%d
		RETURNING subcategory_id, parent_category_id, subcategory_name, description, is_active, created_at`,
		strings.Join(set, ", "), len(args),
	)

	var sub models.ProductSubcategory
	err := DB.QueryRow(query, args...).Scan(
		&sub.SubcategoryID, &sub.ParentCategoryID, &sub.SubcategoryName, &sub.Description, &sub.IsActive, &sub.CreatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subcategory": sub})
}

// DeleteSubcategory removes a subcategory
func DeleteSubcategory(c *gin.Context) {
	subcategoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := DB.Exec(`DELETE FROM product_subcategories WHERE subcategory_id = $1`, subcategoryID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}

func subcategoriesOf(categoryID int64) ([]models.ProductSubcategory, error) {
	rows, err := DB.Query(`
		SELECT subcategory_id, parent_category_id, subcategory_name, description, is_active, created_at
		FROM product_subcategories
		WHERE parent_category_id = $1 AND is_active = true
		ORDER BY subcategory_name ASC`,
		categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subcategories := []models.ProductSubcategory{}
	for rows.Next() {
		var sub models.ProductSubcategory
		err := rows.Scan(&sub.SubcategoryID, &sub.ParentCategoryID, &sub.SubcategoryName, &sub.Description, &sub.IsActive, &sub.CreatedAt)
		if err != nil {
			return nil, err
		}
		subcategories = append(subcategories, sub)
	}
	return subcategories, rows.Err()
}
