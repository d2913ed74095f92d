package models

import (
	"time"
)

type Product struct {
	ProductID     int64     `json:"product_id" db:"product_id"`
	ProductName   string    `json:"product_name" db:"product_name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	BrandID       *int64    `json:"brand_id,omitempty" db:"brand_id"`
	CategoryID    *int64    `json:"category_id,omitempty" db:"category_id"`
	SubcategoryID *int64    `json:"subcategory_id,omitempty" db:"subcategory_id"`
	// Legacy free-text category kept for rows created before the category tables existed.
	ProductCategory *string   `json:"product_category,omitempty" db:"product_category"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields for listings
	BrandName    *string `json:"brand_name,omitempty" db:"-"`
	CategoryName *string `json:"category_name,omitempty" db:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (Product) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		product_id BIGSERIAL PRIMARY KEY,
		product_name TEXT NOT NULL,
		description TEXT,
		brand_id BIGINT REFERENCES brands(brand_id) ON DELETE SET NULL,
		category_id BIGINT REFERENCES product_categories(category_id) ON DELETE SET NULL,
		subcategory_id BIGINT REFERENCES product_subcategories(subcategory_id) ON DELETE SET NULL,
		product_category TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

type ProductMedia struct {
	MediaID    int64     `json:"media_id" db:"media_id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileType   string    `json:"file_type" db:"file_type"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

func (ProductMedia) TableName() string {
	return "products_media"
}

func (ProductMedia) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products_media (
		media_id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		file_url TEXT NOT NULL,
		file_type TEXT NOT NULL,
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
