// Package domain contains persistence models for subscription kits, the
// cart-like aggregates shoppers assemble before converting them into
// recurring orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// KitStatus represents lifecycle states for a subscription kit.
type KitStatus string

const (
	KitStatusDraft     KitStatus = "draft"
	KitStatusConfirmed KitStatus = "confirmed"
)

// SubscriptionKit captures a shopper's recurring-delivery cart.
//
// TotalPriceCents is derived: it always equals the sum of
// quantity x price_at_addition_cents over the kit's current item rows.
// Every item mutation recomputes it inside the same transaction.
type SubscriptionKit struct {
	ID                  snowflake.ID  `json:"id" gorm:"primaryKey"`
	UserID              *snowflake.ID `json:"user_id,omitempty" gorm:"index"`
	Status              KitStatus     `json:"status" gorm:"type:text;not null;default:draft"`
	DeliveryFrequencyID *int64        `json:"delivery_frequency_id,omitempty" gorm:""`
	TotalPriceCents     int64         `json:"total_price_cents" gorm:"not null;default:0"`
	ConfirmedAt         *time.Time    `json:"confirmed_at,omitempty" gorm:""`
	CreatedAt           time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SubscriptionKit) TableName() string { return "subscription_kits" }

// KitItem associates a kit with a product. Identity is composite: at most
// one row per (kit, product). PriceAtAdditionCents is the product price
// snapshot taken when the item was added; it is not re-synced when the
// product price later changes.
type KitItem struct {
	KitID                snowflake.ID `json:"kit_id" gorm:"primaryKey;autoIncrement:false"`
	ProductID            snowflake.ID `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity             int          `json:"quantity" gorm:"not null"`
	PriceAtAdditionCents int64        `json:"price_at_addition_cents" gorm:"not null"`
	UpdatedAt            time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (KitItem) TableName() string { return "subscription_kit_items" }

// Activity action types, append-only.
const (
	ActionCreated         = "created"
	ActionItemAdded       = "item_added"
	ActionQuantityUpdated = "quantity_updated"
	ActionItemRemoved     = "item_removed"
	ActionFrequencySet    = "frequency_set"
	ActionConfirmed       = "confirmed"
)

// KitActivity is the audit trail of kit mutations. Write-only: no
// operation in the lifecycle reads it back.
type KitActivity struct {
	ID         snowflake.ID      `json:"id" gorm:"primaryKey"`
	KitID      snowflake.ID      `json:"kit_id" gorm:"not null;index"`
	ActionType string            `json:"action_type" gorm:"type:text;not null"`
	Details    datatypes.JSONMap `json:"details,omitempty" gorm:"column:action_details;type:jsonb"`
	CreatedAt  time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (KitActivity) TableName() string { return "kit_activity_log" }

// SummaryItem is an item row joined with the product fields the shopping
// UI renders.
type SummaryItem struct {
	ProductID            snowflake.ID `json:"product_id"`
	ProductName          string       `json:"product_name"`
	ProductImageURL      *string      `json:"product_image_url,omitempty"`
	ProductDescription   *string      `json:"product_description,omitempty"`
	Quantity             int          `json:"quantity"`
	PriceAtAdditionCents int64        `json:"price_at_addition_cents"`
}

// Summary composes the kit row, its item rows and the resolved delivery
// frequency into one read-only view.
type Summary struct {
	Kit       SubscriptionKit `json:"kit"`
	Items     []SummaryItem   `json:"items"`
	Frequency *Frequency      `json:"delivery_frequency,omitempty"`
}

// Frequency mirrors the delivery_frequencies row resolved for a summary.
type Frequency struct {
	ID             int64  `json:"id"`
	Label          string `json:"label"`
	IntervalInDays int    `json:"interval_in_days"`
}
