package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a storefront item sellers publish and shoppers add to kits.
type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	SellerID    snowflake.ID `json:"seller_id" gorm:"not null;index"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	ImageURL    *string      `json:"image_url,omitempty" gorm:"type:text"`
	PriceCents  int64        `json:"price_cents" gorm:"not null"`
	Active      bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
