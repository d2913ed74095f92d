package database

import (
	"database/sql"
	"fmt"

	"github.com/hallvardkul/RateMate-Backend/models"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type DB struct {
	*sql.DB
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// InitializeTables creates all tables if they don't exist.
func (db *DB) InitializeTables() error {
	// Order matters: tables are created respecting foreign key dependencies.
	tables := []interface {
		TableName() string
		CreateTableSQL() string
	}{
		models.User{},
		models.Brand{},
		models.ProductCategory{},
		models.ProductSubcategory{},
		models.Product{},
		models.ProductMedia{},
		models.RatingCategory{},
		models.Review{},
		models.CategoryRating{},
		models.Comment{},
	}

	for _, table := range tables {
		logrus.WithField("table", table.TableName()).Debug("creating table")
		if _, err := db.Exec(table.CreateTableSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.TableName(), err)
		}
	}

	if err := db.seedRatingCategories(); err != nil {
		return fmt.Errorf("failed to seed rating categories: %w", err)
	}

	logrus.Info("all tables created successfully")
	return nil
}

// seedRatingCategories inserts the fixed aspect names so the catalog endpoint
// has data on a fresh database.
func (db *DB) seedRatingCategories() error {
	for _, name := range models.RatingCategories {
		_, err := db.Exec(
			`INSERT INTO rating_categories (category_name) VALUES ($1)
			 ON CONFLICT (category_name) DO NOTHING`,
			name,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
