package models

import (
	"time"
)

type ProductCategory struct {
	CategoryID   int64     `json:"category_id" db:"category_id"`
	CategoryName string    `json:"category_name" db:"category_name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

func (ProductCategory) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS product_categories (
		category_id BIGSERIAL PRIMARY KEY,
		category_name TEXT UNIQUE NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

type ProductSubcategory struct {
	SubcategoryID    int64     `json:"subcategory_id" db:"subcategory_id"`
	ParentCategoryID int64     `json:"parent_category_id" db:"parent_category_id"`
	SubcategoryName  string    `json:"subcategory_name" db:"subcategory_name"`
	Description      *string   `json:"description,omitempty" db:"description"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	// Joined field for listings
	ParentCategoryName *string `json:"parent_category_name,omitempty" db:"-"`
}

func (ProductSubcategory) TableName() string {
	return "product_subcategories"
}

func (ProductSubcategory) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS product_subcategories (
		subcategory_id BIGSERIAL PRIMARY KEY,
		parent_category_id BIGINT NOT NULL REFERENCES product_categories(category_id) ON DELETE CASCADE,
		subcategory_name TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE (parent_category_id, subcategory_name)
	);`
}

type RatingCategory struct {
	CategoryID   int64   `json:"category_id" db:"category_id"`
	CategoryName string  `json:"category_name" db:"category_name"`
	Description  *string `json:"description,omitempty" db:"description"`
	IsActive     bool    `json:"is_active" db:"is_active"`
}

func (RatingCategory) TableName() string {
	return "rating_categories"
}

func (RatingCategory) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS rating_categories (
		category_id BIGSERIAL PRIMARY KEY,
		category_name TEXT UNIQUE NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);`
}
