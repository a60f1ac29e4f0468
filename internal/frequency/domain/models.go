// Package domain holds the delivery frequency reference data a kit
// schedules recurring deliveries against.
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// DeliveryFrequency is read-only reference data; it is looked up, never
// mutated, by the kit lifecycle.
type DeliveryFrequency struct {
	ID             int64  `json:"id" gorm:"primaryKey"`
	Label          string `json:"label" gorm:"type:text;not null"`
	IntervalInDays int    `json:"interval_in_days" gorm:"not null"`
}

func (DeliveryFrequency) TableName() string { return "delivery_frequencies" }

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]DeliveryFrequency, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*DeliveryFrequency, error)
}

var ErrNotFound = errors.New("frequency_not_found")
