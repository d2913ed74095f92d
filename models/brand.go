package models

import (
	"time"
)

type Brand struct {
	BrandID            int64     `json:"brand_id" db:"brand_id"`
	BrandName          string    `json:"brand_name" db:"brand_name"`
	Email              string    `json:"email" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	IsVerified         bool      `json:"is_verified" db:"is_verified"`
	VerificationStatus string    `json:"verification_status" db:"verification_status"`
	Website            *string   `json:"website,omitempty" db:"website"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func (Brand) TableName() string {
	return "brands"
}

func (Brand) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS brands (
		brand_id BIGSERIAL PRIMARY KEY,
		brand_name TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status TEXT NOT NULL DEFAULT 'unverified',
		website TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
