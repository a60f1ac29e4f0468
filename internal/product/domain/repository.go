package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Product, error)
	FindBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]Product, error)
}
