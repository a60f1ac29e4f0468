package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role separates shoppers from storefront operators.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// User is an account able to sign in and own subscription kits.
type User struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Email        string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `json:"-" gorm:"type:text;not null"`
	DisplayName  string       `json:"display_name" gorm:"type:text;not null"`
	Role         string       `json:"role" gorm:"type:text;not null;default:customer"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

// Claims is the decoded identity carried by a bearer token.
type Claims struct {
	UserID snowflake.ID
	Email  string
	Role   string
}
